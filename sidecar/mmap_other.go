//go:build !unix

package sidecar

import "os"

// mappedFile is the non-unix fallback: the whole sidecar is read into a
// plain byte slice instead of memory-mapped. Accessors behave identically;
// only the backing storage differs.
type mappedFile struct {
	data []byte
}

func openMapped(path string) (*mappedFile, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return &mappedFile{data: data}, data, nil
}

// Close releases the backing slice. On this platform there is no kernel
// mapping to tear down.
func (m *mappedFile) Close() error {
	m.data = nil
	return nil
}
