package avs

import "strconv"

// NodeType is the host's code for the value stored in a property node.
type NodeType uint32

// Node types understood by the host property API.
const (
	NodeNode NodeType = iota + 1
	NodeS8
	NodeU8
	NodeS16
	NodeU16
	NodeS32
	NodeU32
	NodeS64
	NodeU64
	NodeBin
	NodeStr
	NodeIP4
	NodeTime
	NodeFloat
	NodeDouble
	Node2S8
	Node2U8
	Node2S16
	Node2U16
	Node2S32
	Node2U32
	Node2S64
	Node2U64
	Node2F
	Node2D
	Node3S8
	Node3U8
	Node3S16
	Node3U16
	Node3S32
	Node3U32
	Node3S64
	Node3U64
	Node3F
	Node3D
	Node4S8
	Node4U8
	Node4S16
	Node4U16
	Node4S32
	Node4U32
	Node4S64
	Node4U64
	Node4F
	Node4D
	NodeAttr
	NodeAttrAndNode
	NodeVS8
	NodeVU8
	NodeVS16
	NodeVU16
	NodeBool
	Node2B
	Node3B
	Node4B
	NodeVB
)

var nodeTypeNames = [...]string{
	"", "node", "s8", "u8", "s16", "u16", "s32", "u32", "s64", "u64", "bin",
	"str", "ip4", "time", "float", "double",
	"2s8", "2u8", "2s16", "2u16", "2s32", "2u32", "2s64", "2u64", "2f", "2d",
	"3s8", "3u8", "3s16", "3u16", "3s32", "3u32", "3s64", "3u64", "3f", "3d",
	"4s8", "4u8", "4s16", "4u16", "4s32", "4u32", "4s64", "4u64", "4f", "4d",
	"attr", "attr_and_node",
	"vs8", "vu8", "vs16", "vu16", "bool", "2b", "3b", "4b", "vb",
}

// Valid reports whether t is a type the host defines.
func (t NodeType) Valid() bool {
	return t >= NodeNode && t <= NodeVB
}

func (t NodeType) String() string {
	if !t.Valid() {
		return "nodetype(" + strconv.FormatUint(uint64(t), 10) + ")"
	}
	return nodeTypeNames[t]
}
