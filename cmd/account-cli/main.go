package main

import "github.com/nfrund/accounttabs/cmd/account-cli/cmd"

func main() {
	cmd.Execute()
}
