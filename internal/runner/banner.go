package runner

import "github.com/projectdiscovery/gologger"

const version = "v1.0.0"

var banner = `
                   _
   ____ ___  ____  (_)___  ____ _
  / __ ` + "`" + `__ \/ __ \/ / __ \/ __ ` + "`" + `/
 / / / / / / /_/ / / / / / /_/ /
/_/ /_/ /_/ .___/_/_/ /_/\__, /
         /_/            /____/   ` + version + `
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
}
