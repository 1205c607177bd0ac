// Package testutil provides shared test utilities for woodpecker.
//
// # Fixtures
//
// The fixtures.go file provides sample puzzles that the real move oracle
// accepts:
//
//   - OpeningPuzzle() - three plies, solved by the automated reply
//   - OpeningLongPuzzle() - four plies, two user moves
//   - MateInOnePuzzle(), PromotionPuzzle() - two plies, solved by the user
//   - SetupOnlyPuzzle() - setup move only
//   - SamplePuzzles(), SampleCatalog(t), CatalogOf(t, ...) - catalogs
//   - SampleProgressMidCycle() - progress partway through cycle 2
//
// # Time
//
//   - ManualScheduler - captures automated replies until Fire is called
//   - FakeClock - settable time source for stopwatches
//   - ContextWithTestDeadline(t, fallback), WaitFor(wait, cond)
//
// # Environment Helpers
//
//   - SetupTestDir(t) - temp dir with .woodpecker/config.yaml and puzzles.json
//   - NewMemoryProgressStore(t) - progress store over an in-memory blob store
//   - DiscardLogger() - logger that writes nowhere
//   - MustMarshalJSON, MustUnmarshalJSON, WriteTestFile
//
// # Assertions
//
//   - AssertProgress(t, p, cycle, index, completed)
//   - AssertAttemptCount, AssertLastAttempt, AssertNoAttempts, AssertTotalAttempts
package testutil
