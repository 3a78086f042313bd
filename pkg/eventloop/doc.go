// Package eventloop implements the cyclic-callback timer facility the core
// schedules its receive-timeout monitor on (§6). It is the lowest-level
// dependency in the manager's build order: transport handlers and the
// receive-timeout monitor both sit on top of it, never the other way round.
//
// A callback registered with AddCyclicCallback keeps firing on its interval
// until RemoveCyclicCallback is called, including from within the callback
// itself — the pattern the receive-timeout monitor uses to implement a
// one-shot timer out of a cyclic primitive. The only cycle-miss policy
// implemented is "resume with current time": a callback that runs long
// never tries to catch up on missed ticks, it simply re-arms a fresh
// interval once it returns.
package eventloop
