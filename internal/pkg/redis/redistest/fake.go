// Package redistest provides an in-memory redis.IRedis for tests.
package redistest

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("redis: client is closed")

type entry struct {
	value   string
	expires time.Time
}

type Fake struct {
	mu     sync.Mutex
	data   map[string]entry
	closed bool
	// FailWith, when set, is returned by every operation.
	FailWith error
}

func New() *Fake {
	return &Fake{data: map[string]entry{}}
}

func (f *Fake) err() error {
	if f.FailWith != nil {
		return f.FailWith
	}
	if f.closed {
		return ErrClosed
	}
	return nil
}

func (f *Fake) Set(key string, value any, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err(); err != nil {
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := entry{value: string(b)}
	if expiration > 0 {
		e.expires = time.Now().Add(expiration)
	}
	f.data[key] = e
	return nil
}

func (f *Fake) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err(); err != nil {
		return "", err
	}
	e, ok := f.data[key]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(f.data, key)
		return "", nil
	}
	return e.value, nil
}

func (f *Fake) Del(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err(); err != nil {
		return err
	}
	delete(f.data, key)
	return nil
}

func (f *Fake) Expire(key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.err(); err != nil {
		return err
	}
	if e, ok := f.data[key]; ok {
		e.expires = time.Now().Add(expiration)
		f.data[key] = e
	}
	return nil
}

func (f *Fake) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err()
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Has reports whether key holds a live value.
func (f *Fake) Has(key string) bool {
	v, err := f.Get(key)
	return err == nil && v != ""
}
