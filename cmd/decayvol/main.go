package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/caarlos0/env/v11"

	"github.com/lukaszgryglicki/decayvol/internal/decayvol"
)

type options struct {
	Debug        bool   `env:"DEBUG"`
	SkipProgress bool   `env:"SKIP_PROGRESS"`
	Profile      bool   `env:"PROFILE"`
	ProfileOut   string `env:"PROFILE_OUT" envDefault:"cpu.out"`
}

func main() {
	var opts options
	if err := env.Parse(&opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	decayvol.Debug = opts.Debug
	decayvol.SkipProgress = opts.SkipProgress

	if opts.Profile {
		f, err := os.Create(opts.ProfileOut)
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "configs/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := decayvol.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
