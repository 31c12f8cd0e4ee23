// Package analysis is the computation core of the tracker: selecting a
// contiguous quarter range out of the ordered dataset and computing
// descriptive statistics over one region column. Every function here is a
// pure read of its inputs; results are fresh values owned by the caller.
package analysis
