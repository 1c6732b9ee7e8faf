package store

import (
	"encoding/binary"
	"fmt"

	akitamem "github.com/sarchlab/akita/v4/mem/mem"

	"github.com/sarchlab/memsim/mem"
)

var _ mem.Accessor[uint32] = (*WordStorage)(nil)

// WordBytes is the number of bytes one word occupies in a WordStorage.
const WordBytes = 4

// WordStorage wraps an Akita storage as a word-addressed backing store.
// Word n lives at byte offset n*WordBytes, little-endian.
type WordStorage struct {
	storage *akitamem.Storage
	words   uint32
}

// NewWordStorage creates a WordStorage with room for the given number of
// words.
func NewWordStorage(words uint32) *WordStorage {
	return &WordStorage{
		storage: akitamem.NewStorage(uint64(words) * WordBytes),
		words:   words,
	}
}

// Size returns the number of addressable words.
func (s *WordStorage) Size() uint32 {
	return s.words
}

// Get reads the word at addr.
func (s *WordStorage) Get(addr uint32) (uint32, bool, error) {
	if err := s.check(addr); err != nil {
		return 0, false, err
	}

	data, err := s.storage.Read(uint64(addr)*WordBytes, WordBytes)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read word 0x%X: %w", addr, err)
	}

	return binary.LittleEndian.Uint32(data), true, nil
}

// Set writes the word at addr.
func (s *WordStorage) Set(addr uint32, data uint32) error {
	if err := s.check(addr); err != nil {
		return err
	}

	buf := make([]byte, WordBytes)
	binary.LittleEndian.PutUint32(buf, data)

	if err := s.storage.Write(uint64(addr)*WordBytes, buf); err != nil {
		return fmt.Errorf("failed to write word 0x%X: %w", addr, err)
	}

	return nil
}

func (s *WordStorage) check(addr uint32) error {
	if addr >= s.words {
		return fmt.Errorf("%w: address 0x%X, store size %d",
			mem.ErrOutOfRange, addr, s.words)
	}

	return nil
}
