// Package batch persists and drives the transcript batch workflow.
//
// A batch moves through four phases: input while URLs are being collected,
// review once metadata has been fetched and naming fields can be edited,
// processing while the frozen selection runs, and complete when every
// selected item has a recorded result. The Store keeps phase, items, and
// results in SQLite under the state directory; the Coordinator performs the
// fetch and processing work on top of it.
package batch
