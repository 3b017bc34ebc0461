package main

import (
	"context"
	"os"
	"time"
)

// watchFile polls path every interval and calls onChange with the new
// contents whenever its modification time or size changes. It returns
// when ctx is done.
func watchFile(ctx context.Context, path string, interval time.Duration, onChange func([]byte), onError func(error)) {
	var (
		modTime time.Time
		size    int64
	)
	if fi, err := os.Stat(path); err == nil {
		modTime, size = fi.ModTime(), fi.Size()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		fi, err := os.Stat(path)
		if err != nil {
			// editors replace files by rename; try again next tick
			continue
		}
		if fi.ModTime().Equal(modTime) && fi.Size() == size {
			continue
		}
		modTime, size = fi.ModTime(), fi.Size()
		data, err := os.ReadFile(path)
		if err != nil {
			onError(err)
			continue
		}
		onChange(data)
	}
}
