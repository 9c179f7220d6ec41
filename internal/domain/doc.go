// Package domain holds the types, ports, and error kinds shared by every
// other package in the module: the Result[T] monad, the Path value type,
// the FS/ProcessExecutor/Logger capability ports, and the error taxonomy
// from which every subsystem builds its own concrete error types.
//
// Result[T] is used for internal composition across subsystem boundaries
// (manifest conversion, resolution, the pipeline stages); plain (T, error)
// is used at leaf functions that talk to the standard library or an
// injected port. Unwrap/UnwrapErr panic on the wrong variant and should only
// be called after an IsOk/IsErr check, or in tests.
package domain
