// Package analytics reduces experience records into the aggregate views served
// by the analytics API: usage summary, per-peptide effectiveness, trend series
// and peptide comparisons.
//
// Everything here is pure. Callers fetch active experiences (and catalog rows
// for labels) and pass them in; nothing is cached or persisted.
//
// Ratings use a two-level mean. An experience's rating is the mean of its
// rated outcomes; an aggregate rating is the mean of those per-experience
// ratings over the experiences that have one. Experiences with no rated
// outcomes still count towards experience totals. Every mean over an empty
// set is 0, and values are returned at full precision.
package analytics
