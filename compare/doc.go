// Package compare ranks the safety profiles of several drugs.
//
// A Comparator fans out to a profile resolver for each requested drug,
// joins every branch, and produces a Result ordered by descending
// safety score with a deterministic recommendation. When some drugs
// fail to resolve but at least two succeed, the comparison proceeds on
// the surviving subset and names the omissions.
package compare
