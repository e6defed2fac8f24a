package main

import "github.com/killallgit/songpeaks/cmd"

// @title           SongPeaks API
// @version         1.0.0
// @description     Derived video data and most-replayed section suggestions for YouTube songs
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/songpeaks
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
