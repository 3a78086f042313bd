// Package model defines the PubSub configuration tree's entity types:
// Connection, WriterGroup, DataSetWriter, PublishedDataSet, ReaderGroup,
// DataSetReader, StandaloneSubscribedDataSet, TopicAssign, and ReserveID.
//
// Entity types here carry no behavior beyond Clone (deep copy, matching the core's
// "deep-copies the config" contract on every add operation) and are owned
// exclusively by pkg/pubsub, which holds the single serializing lock that
// protects mutation. Back-references between entities are plain ids, not
// pointers, per SPEC_FULL.md §9 — a parent's removal walks its children by
// id rather than following an intrusive list.
package model
