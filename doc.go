/*
sigbatch processes streams of variable-length, multi-channel numeric records in
fixed-size batches, applying per-record workers in parallel and reassembling
coherent batches even when a worker changes record cardinality.

A Batch holds parallel component arrays (signal, annotation, meta, target)
sharing one Index of record identifiers. A worker maps one record to nothing
(drop), one record (replace) or several records (expand); the three outcomes
may be mixed freely across the records of one batch.

The engine has three moving parts:

- The Dispatcher runs one task per record on a bounded, reused goroutine pool.
Results come back in submission order regardless of completion order, and a
failing task never cancels its siblings: all failures are captured and raised
together afterwards, so diagnostics cover every failing record, not just the
first one.

- Assemble turns the ordered per-record outputs back into a batch. If no
record truly expanded, the surviving identifiers are kept in order. As soon as
one record expands there is no 1:1 mapping left to keep, so a fresh dense index
is generated and each derived record carries its parent identifier in its meta
under MetaOrigin. Annotation and meta broadcast to expanded children are deep
copies: mutating one child never corrupts a sibling.

- Merge and Rebalance stitch variable-sized batches (the unavoidable result of
filtering and expansion upstream) back into a steady stream of target-size
batches by concatenating components and re-splitting.

Pool sizing is a placement decision, not a correctness one: a Dispatcher sized
large for IO-heavy workers and one sized to GOMAXPROCS for compute-bound
workers produce identical results for identical inputs. As for any performance
tuning, you should try and tune.
*/
package sigbatch
