// Command sapling runs a project directory.
//
//	sapling [-fps] [dir]
//
// The directory defaults to the current one. A missing manifest.yaml,
// asset directories and start room are created on first run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phanxgames/sapling"
	"github.com/phanxgames/sapling/script/luahost"
)

func main() {
	fps := flag.Bool("fps", false, "show an FPS/TPS overlay")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-fps] [dir]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}

	host := luahost.New()
	g, err := sapling.New(sapling.Config{
		Dir:               dir,
		Host:              host,
		Backend:           sapling.EbitenBackend{},
		StartRoomFile:     sapling.StartRoom + luahost.Ext,
		StartRoomTemplate: luahost.StartRoom,
	})
	if err != nil {
		host.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := sapling.Run(g, sapling.RunConfig{ShowFPS: *fps}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
