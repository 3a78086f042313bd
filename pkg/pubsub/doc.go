// Package pubsub implements the PubSub management core: the
// Connection/WriterGroup/DataSetWriter/ReaderGroup/DataSetReader object
// graph, the PublishedDataSet and StandaloneSubscribedDataSet registries,
// the ReserveId allocator, and the per-reader receive-timeout monitor,
// all behind one Manager guarded by a single serializing lock.
//
// Construct a Manager with New, supplying a transport.Registry, an
// eventloop.EventLoop, and a session.Registry; a Mirror is optional. Every
// mutating call except Destroy (which takes the lock directly) goes through
// withLock; every lookup-only call goes through withRLock. Timer callbacks scheduled via the event loop run on
// their own goroutine and reacquire the lock before touching manager
// state — see fireReaderTimeout in timeout.go for the pattern.
package pubsub
