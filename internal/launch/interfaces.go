package launch

import "context"

// Starter spawns a process without waiting for it to exit.
type Starter interface {
	Start(cmd Command) (pid int, err error)
}

// Runner runs a process to completion and returns its standard output.
type Runner interface {
	Output(ctx context.Context, cmd Command) ([]byte, error)
}
