// voxctl sends control signals to a running voxtyped daemon, located
// through its pid file. Bind `voxctl toggle` to a desktop keybinding
// for push-to-talk style dictation.
package main

import (
	"flag"
	"fmt"
	"os"

	"voxtyped/pidfile"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: voxctl [-pidfile PATH] COMMAND

Commands:
  toggle    start or stop recording
  status    ask the daemon to log its state
  quit      shut the daemon down
`)
	os.Exit(2)
}

func main() {
	pidPath := flag.String("pidfile", pidfile.DefaultPath, "Daemon pid file path")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}
	command := flag.Arg(0)
	if command != "toggle" && command != "status" && command != "quit" {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", command)
		usage()
	}

	pid, err := pidfile.Read(*pidPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Daemon not running: %v\n", err)
		os.Exit(1)
	}

	if err := send(pid, command); err != nil {
		if isNoSuchProcess(err) {
			// Daemon died without cleaning up; the file is stale.
			pidfile.Remove(*pidPath)
			fmt.Fprintf(os.Stderr, "Daemon not running (removed stale pid file for pid %d)\n", pid)
		} else {
			fmt.Fprintf(os.Stderr, "Sending %s to pid %d: %v\n", command, pid, err)
		}
		os.Exit(1)
	}
	fmt.Printf("Sent %s to pid %d\n", command, pid)
}
