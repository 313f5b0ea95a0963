// Package mocks holds hand-written test doubles for the ports other packages
// depend on: MockAnalyzer for analysis.Analyzer and MockRecordStore for
// store.RecordStore.
//
// Each mock has function fields that override a method per test case, and
// falls back to canned values (or, for the record store, an in-memory map)
// when they are nil:
//
//	analyzer := &mocks.MockAnalyzer{
//	    ProbeFn: func(ctx context.Context) bool { return true },
//	}
package mocks
