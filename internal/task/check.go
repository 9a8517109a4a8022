package task

import (
	"context"
	"os"
)

// Check decides at run time whether a task's effects are already achieved,
// making execution of its body unnecessary. Checks are evaluated lazily,
// immediately before a node would otherwise run, because their truth may
// depend on side effects of nodes that ran earlier in the same session.
type Check interface {
	Satisfied(ctx context.Context) (bool, error)
}

// CheckFunc adapts a plain function to the Check interface.
type CheckFunc func(ctx context.Context) (bool, error)

// Satisfied implements Check.
func (f CheckFunc) Satisfied(ctx context.Context) (bool, error) {
	return f(ctx)
}

// FileExists returns a check satisfied when path exists.
func FileExists(path string) Check {
	return CheckFunc(func(context.Context) (bool, error) {
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	})
}

// EnvSet returns a check satisfied when the environment variable name is set
// to a non-empty value.
func EnvSet(name string) Check {
	return CheckFunc(func(context.Context) (bool, error) {
		return os.Getenv(name) != "", nil
	})
}
