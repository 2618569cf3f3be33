// Command diaryctl talks to the diary backend from a terminal. Every call goes
// through the resilient request layer, so failures print the same localized
// messages the mobile app shows.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
