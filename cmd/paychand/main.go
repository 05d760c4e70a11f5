package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"
)

// version is set at build time.
var version = "dev"

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".paychand")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
}

func helpMessage() {
	fmt.Println("paychand")
	fmt.Println("        Payment Channel Application")
	fmt.Println("")
	fmt.Println("help    Print this message")
	fmt.Println("init    Create a development key and genesis file")
	fmt.Println("claim   Sign a cumulative payment claim")
	fmt.Println("verify  Check a payment claim signature")
	fmt.Println("version Print the app version")
	fmt.Println("")
	flag.PrintDefaults()
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "paychan")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = cmdInit(logger, *varHome, rest)
	case "claim":
		err = cmdClaim(os.Stdout, rest)
	case "verify":
		err = cmdVerify(os.Stdout, rest)
	case "version":
		fmt.Println(version)
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", "cmd", cmd, "err", err)
		os.Exit(1)
	}
}
