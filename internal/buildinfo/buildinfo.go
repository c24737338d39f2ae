package buildinfo

import "github.com/enescakir/emoji"

const (
	ProjectName = "sketchy"
	GithubURL   = "https://github.com/bloops-games/sketchy"
)

var (
	Graffiti = `
     _        _       _
 ___| | _____| |_ ___| |__  _   _
/ __| |/ / _ \ __/ __| '_ \| | | |
\__ \   <  __/ || (__| | | | |_| |
|___/_|\_\___|\__\___|_| |_|\__, |
                            |___/
`
	GreetingSrv = emoji.ArtistPalette.String() + " %s %s\n" + "github: %s\n\n"
	GreetingCLI = emoji.Wrench.String() + " %s-cli %s\n\n"
)
