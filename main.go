package main

import (
	"os"

	"github.com/PolarWolf314/stowaway/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
