package fasttime

import (
	"sync/atomic"
	"time"
)

var currentTimestamp = func() *atomic.Uint64 {
	var x atomic.Uint64
	x.Store(uint64(time.Now().Unix()))
	return &x
}()

func init() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for tm := range ticker.C {
			t := uint64(tm.Unix())
			currentTimestamp.Store(t)
		}
	}()
}

// UnixTimestamp returns the current unix timestamp in seconds
//
// It is faster than time.Now().Unix()
func UnixTimestamp() uint64 {
	return currentTimestamp.Load()
}
