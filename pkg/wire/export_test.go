package wire

import "encoding/binary"

func appendVarint(v int64) []byte {
	return binary.AppendVarint(nil, v)
}
