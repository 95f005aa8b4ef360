package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/aws-costwatch-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$  /$$      /$$  /$$$$$$         /$$$$$$                        /$$     /$$      /$$             /$$               /$$
         /$$__  $$| $$  /$ | $$ /$$__  $$       /$$__  $$                      | $$    | $$  /$ | $$            | $$             | $$
        | $$  \ $$| $$ /$$$| $$| $$  \__/      | $$  \__/  /$$$$$$   /$$$$$$$ /$$$$$$  | $$ /$$$| $$  /$$$$$$  /$$$$$$    /$$$$$$$| $$$$$$$
        | $$$$$$$$| $$/$$ $$ $$|  $$$$$$       | $$       /$$__  $$ /$$_____/|_  $$_/  | $$/$$ $$ $$ |____  $$|_  $$_/   /$$_____/| $$__  $$
        | $$__  $$| $$$$_  $$$$ \____  $$      | $$      | $$  \ $$|  $$$$$$   | $$    | $$$$_  $$$$  /$$$$$$$  | $$    | $$      | $$  \ $$
        | $$  | $$| $$$/ \  $$$ /$$  \ $$      | $$    $$| $$  | $$ \____  $$  | $$ /$$| $$$/ \  $$$ /$$__  $$  | $$ /$$| $$      | $$  | $$
        | $$  | $$| $$/   \  $$|  $$$$$$/      |  $$$$$$/|  $$$$$$/ /$$$$$$$/  |  $$$$/| $$/   \  $$|  $$$$$$$  |  $$$$/|  $$$$$$$| $$  | $$
        |__/  |__/|__/     \__/ \______/        \______/  \______/ |_______/    \___/  |__/     \__/ \_______/   \___/   \_______/|__/  |__/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("AWS CostWatch (v%s)", formattedVersion)))
}
