package avi

import "encoding/binary"

// ChunkNode is the parsed form of one RIFF chunk: an 8-byte header plus its
// payload. Payload (and, transitively, every child's Payload) is a zero-copy
// slice into the buffer handed to ParseChunks — the caller must keep that
// buffer alive for as long as any ChunkNode referencing it is in use.
type ChunkNode struct {
	ID       FourCC
	Length   uint32 // declared payload length, excluding the pad byte
	Payload  []byte // len(Payload) == Length
	Form     FourCC // valid only when IsList()
	Children []ChunkNode
}

// IsList reports whether c is a RIFF or LIST chunk, i.e. its payload opens
// with a form FourCC followed by child chunks.
func (c *ChunkNode) IsList() bool {
	return isList(c.ID)
}

// AlignSize rounds length up to the next even number — the on-disk pad
// byte that follows every odd-length chunk payload. Every producer and
// consumer of chunk offsets must route through this one helper, since the
// tree parser's termination check depends on it being applied uniformly.
func AlignSize(length uint32) uint32 {
	return (length + 1) &^ 1
}

// ParseChunks parses a single chunk (and, if it is a list, its full subtree)
// starting at offset 0 of data. It never reads past len(data).
func ParseChunks(data []byte) (ChunkNode, error) {
	return parseChunk(data, "")
}

func parseChunk(data []byte, path string) (ChunkNode, error) {
	if len(data) < 8 {
		return ChunkNode{}, newErr(ErrShortBuffer, path, nil)
	}

	id := FourCC(binary.LittleEndian.Uint32(data[0:4]))
	length := binary.LittleEndian.Uint32(data[4:8])
	childPath := path + "/" + id.String()

	if uint64(length)+8 > uint64(len(data)) {
		return ChunkNode{}, newErr(ErrOverlongChunk, childPath, nil)
	}

	node := ChunkNode{
		ID:      id,
		Length:  length,
		Payload: data[8 : 8+length],
	}

	if !isList(id) {
		return node, nil
	}

	if length < 4 || len(data) < 12 {
		return ChunkNode{}, newErr(ErrShortBuffer, childPath, nil)
	}

	node.Form = FourCC(binary.LittleEndian.Uint32(node.Payload[0:4]))
	listPath := childPath + "[" + node.Form.String() + "]"

	var index uint32 = 4
	for index < length {
		child, err := parseChunk(node.Payload[index:length], listPath)
		if err != nil {
			return ChunkNode{}, err
		}
		node.Children = append(node.Children, child)
		index += 8 + AlignSize(child.Length)
	}

	if index != length {
		return ChunkNode{}, newErr(ErrRaggedList, listPath, nil)
	}

	return node, nil
}

// find returns the first direct child with the given identifier, or nil.
func (c *ChunkNode) find(id FourCC) *ChunkNode {
	for i := range c.Children {
		if c.Children[i].ID == id {
			return &c.Children[i]
		}
	}
	return nil
}

// findAll returns every direct child with the given identifier.
func (c *ChunkNode) findAll(id FourCC) []*ChunkNode {
	var out []*ChunkNode
	for i := range c.Children {
		if c.Children[i].ID == id {
			out = append(out, &c.Children[i])
		}
	}
	return out
}

// findList returns the first direct LIST child with the given form.
func (c *ChunkNode) findList(form FourCC) *ChunkNode {
	for i := range c.Children {
		child := &c.Children[i]
		if child.ID == FourCCLIST && child.Form == form {
			return child
		}
	}
	return nil
}
