package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"
)

// CachedEmbedder wraps a Client and stores computed embeddings in badger.
// Only texts missing from the cache are sent to the wrapped client.
type CachedEmbedder struct {
	client Client
	db     *badger.DB
	model  string
}

// NewCachedEmbedder opens (or creates) a badger cache at path. An empty path
// keeps the cache in memory.
func NewCachedEmbedder(client Client, path, model string) (*CachedEmbedder, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}

	return &CachedEmbedder{client: client, db: db, model: model}, nil
}

// Embed returns cached vectors where available and embeds the rest.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	err := c.db.View(func(txn *badger.Txn) error {
		for i, text := range texts {
			item, err := txn.Get(c.key(text))
			if errors.Is(err, badger.ErrKeyNotFound) {
				missing = append(missing, text)
				missingIdx = append(missingIdx, i)
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				vec, err := decodeVector(val)
				out[i] = vec
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	if len(missing) == 0 {
		return out, nil
	}

	computed, err := c.client.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(computed))
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for j, vec := range computed {
			out[missingIdx[j]] = vec
			if err := txn.Set(c.key(missing[j]), encodeVector(vec)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return out, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *CachedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedSingle(ctx, c, text)
}

// Dimensions returns the wrapped client's dimensions.
func (c *CachedEmbedder) Dimensions() int {
	return c.client.Dimensions()
}

// Close closes the cache and the wrapped client.
func (c *CachedEmbedder) Close() error {
	dbErr := c.db.Close()
	if err := c.client.Close(); err != nil {
		return err
	}
	return dbErr
}

func (c *CachedEmbedder) key(text string) []byte {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return []byte("emb:" + hex.EncodeToString(sum[:]))
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("corrupt cached embedding of %d bytes", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec, nil
}
