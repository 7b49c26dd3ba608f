package main

import "github.com/jrsteele09/go-church-admin/cmd/churchadmin/cmd"

func main() {
	cmd.Execute()
}
