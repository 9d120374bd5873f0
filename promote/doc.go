// Package promote implements common-type resolution over descriptor classes.
//
// CommonDType resolves pairs; PromoteSequence resolves whole sequences by
// aggregating the builtin categories before combining them, which makes its
// result independent of input order. The two agree on pairs, but over longer
// sequences PromoteSequence can produce results no left-to-right pairwise
// fold reaches (the classic case is an int class, uint64, and a small float
// in one sequence).
//
// Third-party classes participate through their CommonWith hooks. The
// runtime trusts hooks to be commutative and associative; VerifyCommutative,
// VerifyAssociative and VerifySequenceInvariance exist so extension test
// suites can check that claim instead of shipping it on faith.
package promote
