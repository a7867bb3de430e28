package wipe

import "sync"

// forEachLimited executes fn once per path with at most limit invocations
// in flight. The counting semaphore is acquired before a target's work
// begins and released unconditionally when it finishes; the call returns
// only after every target has released its slot.
func forEachLimited(paths []string, limit int, throttle func(), fn func(string)) {
	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for _, path := range paths {
		if throttle != nil {
			throttle()
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(p)
		}(path)
	}

	wg.Wait()
}
