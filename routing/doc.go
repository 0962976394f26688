// Package routing implements the federated Q-learning trust routing core
// that runs alongside an SDN controller.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - qtable.go: QEntry, FlowTable, LocalStore, GlobalStore — the nested
//     Q-value containers and the Q-learning update
//   - policy.go: the trust-gated argmax decision over the global table
//   - core.go: the per-event orchestration loop and the Boundary contract
//
// # Architecture
//
// Every switch keeps an independent local Q-table, updated once per packet
// observed at that switch. A probabilistic trigger periodically merges all
// local tables into a single global table (sequential pairwise averaging)
// and redistributes a deep copy back to every switch, so all switches
// restart from identical federated knowledge. Routing decisions are made
// from the global table, gated by a decaying per-source trust score: a
// low-trust source is always routed via the flood fallback regardless of
// what the table recommends.
//
// Sub-packages:
//   - routing/trace: decision and aggregation record collection
//   - routing/workload: synthetic packet-event generation for simulations
//
// The OpenFlow-facing side (message encoding, flow-table installation,
// session management) is not part of this package; it implements Boundary
// and delivers events to Core.
package routing
