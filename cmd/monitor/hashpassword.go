package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apimw "github.com/hamed0406/reachmon/internal/httpapi/middleware"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for AUTH_PASSWORD_HASH",
		Long:  "Prints a bcrypt hash of the password given as argument, or read from the first line of stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pass string
			if len(args) == 1 {
				pass = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				pass = strings.TrimRight(line, "\r\n")
			}
			if pass == "" {
				return errors.New("empty password")
			}
			hash, err := apimw.HashPassword(pass)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
