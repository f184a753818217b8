package fernet

import (
	"crypto/aes"
	"sync"
)

// bytePool holds reusable scratch slices for token assembly.
var bytePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 1024)
		return &b
	},
}

// ivPool holds reusable iv slices so Encrypt does not allocate one per call.
var ivPool = sync.Pool{
	New: func() any {
		iv := make([]byte, aes.BlockSize)
		return &iv
	},
}

type scratchBuffer struct {
	ptr *[]byte
	buf []byte
}

func acquireBuffer() *scratchBuffer {
	ptr := bytePool.Get().(*[]byte)
	return &scratchBuffer{ptr: ptr, buf: (*ptr)[:0]}
}

// Release zeros sensitive material and returns the buffer to the pool.
func (s *scratchBuffer) Release() {
	if s == nil || s.ptr == nil {
		return
	}
	buf := s.buf
	for i := range buf {
		buf[i] = 0
	}
	*s.ptr = buf[:0]
	bytePool.Put(s.ptr)
	s.ptr = nil
}
