package storeconfig

import "github.com/dogmatiq/filejournal/executor"

func (c *Config) finalizeExecutor() {
	if c.Executor == nil {
		c.Executor = executor.Goroutines{}
	}
}
