package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/wattbuild/costreport-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
          /$$$$$$                        /$$           /$$$$$$$                                           /$$
         /$$__  $$                      | $$          | $$__  $$                                         | $$
        | $$  \__/  /$$$$$$   /$$$$$$$ /$$$$$$        | $$  \ $$  /$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$ /$$$$$$
        | $$       /$$__  $$ /$$_____/|_  $$_/        | $$$$$$$/ /$$__  $$ /$$__  $$ /$$__  $$ /$$__  $$_  $$_/
        | $$      | $$  \ $$|  $$$$$$   | $$          | $$__  $$| $$$$$$$$| $$  \ $$| $$  \ $$| $$  \__/ | $$
        | $$    $$| $$  | $$ \____  $$  | $$ /$$      | $$  \ $$| $$_____/| $$  | $$| $$  | $$| $$       | $$ /$$
        |  $$$$$$/|  $$$$$$/ /$$$$$$$/  |  $$$$/      | $$  | $$|  $$$$$$$| $$$$$$$/|  $$$$$$/| $$       |  $$$$/
         \______/  \______/ |_______/    \___/        |__/  |__/ \_______/| $$____/  \______/ |__/        \___/
                                                                          | $$
                                                                          | $$
                                                                          |__/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Construction Cost Report CLI (v%s)", formattedVersion)))
}
