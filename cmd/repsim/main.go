// cmd/repsim/main.go
package main

import (
	"repsim/internal/app"
	"repsim/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
