package scheduler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	_ "image/gif"
	_ "image/png"
)

const jpegQuality = 85

// convertToJPEG re-encodes whatever format the image collaborator returned
// (typically PNG) as JPEG for storage efficiency. Already-JPEG input is
// passed through untouched.
func convertToJPEG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format == "jpeg" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// keyedMutex hands out one mutex per post id so generate and publish on the
// same record are mutually exclusive while different records proceed in
// parallel. Entries are never evicted; the id space is operator-sized.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
