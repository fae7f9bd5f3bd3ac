package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/service"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// superuserPasswordEnv supplies the password of createsuperuser --no-input.
const superuserPasswordEnv = "SUPERUSER_PASSWORD"

// maxPasswordTries bounds interactive password entry in changepassword.
const maxPasswordTries = 3

func newCreateSuperuserCmd(cfgFn func() (*config.AppConfig, error)) *cobra.Command {
	var (
		username string
		email    string
		noInput  bool
	)

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account",
		Long: `Create an active staff account that may manage the catalog.

Without --no-input the command prompts for anything not given as a flag and
offers to bypass password validation when the password is rejected. With
--no-input the password is read from ` + superuserPasswordEnv + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgFn()
			if err != nil {
				return err
			}
			users, closeFn, err := openUsers(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			in := service.SuperuserInput{Username: username, Email: email}

			if noInput {
				if in.Username == "" {
					return errors.New("--username is required with --no-input")
				}
				in.Password = os.Getenv(superuserPasswordEnv)
				if in.Password == "" {
					return fmt.Errorf("%s must be set with --no-input", superuserPasswordEnv)
				}
				if _, err := users.CreateSuperuser(cmd.Context(), in); err != nil {
					return describe(err)
				}
				fmt.Fprintln(out, "Superuser created successfully.")
				return nil
			}

			p := newPrompter(cmd.InOrStdin(), out)
			if in.Username == "" {
				if in.Username, err = p.line("Username: "); err != nil {
					return err
				}
			}
			if in.Email == "" {
				if in.Email, err = p.line("Email address: "); err != nil {
					return err
				}
			}

			for {
				in.Password, err = p.confirmedPassword()
				if errors.Is(err, errPasswordMismatch) || errors.Is(err, errBlankPassword) {
					fmt.Fprintf(out, "Error: %v.\n", err)
					continue
				}
				if err != nil {
					return err
				}

				_, err = users.CreateSuperuser(cmd.Context(), in)
				msgs, weak := weakPasswordMessages(err)
				if !weak {
					break
				}
				for _, m := range msgs {
					fmt.Fprintln(out, m)
				}
				bypass, promptErr := p.yes("Bypass password validation and create user anyway? [y/N]: ")
				if promptErr != nil {
					return promptErr
				}
				if bypass {
					in.SkipValidation = true
					_, err = users.CreateSuperuser(cmd.Context(), in)
					break
				}
			}
			if err != nil {
				return describe(err)
			}

			fmt.Fprintln(out, "Superuser created successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username of the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email address of the new account")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Do not prompt; read the password from "+superuserPasswordEnv)
	return cmd
}

func newChangePasswordCmd(cfgFn func() (*config.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "changepassword <username>",
		Short: "Set a new password for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			cfg, err := cfgFn()
			if err != nil {
				return err
			}
			users, closeFn, err := openUsers(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			p := newPrompter(cmd.InOrStdin(), out)
			fmt.Fprintf(out, "Changing password for user '%s'\n", username)

			for try := 0; try < maxPasswordTries; try++ {
				password, err := p.confirmedPassword()
				if errors.Is(err, errPasswordMismatch) || errors.Is(err, errBlankPassword) {
					fmt.Fprintf(out, "Error: %v. Please try again.\n", err)
					continue
				}
				if err != nil {
					return err
				}

				err = users.ChangePassword(cmd.Context(), username, password, false)
				if msgs, weak := weakPasswordMessages(err); weak {
					for _, m := range msgs {
						fmt.Fprintln(out, m)
					}
					continue
				}
				if err != nil {
					return describe(err)
				}

				fmt.Fprintf(out, "Password changed successfully for user '%s'\n", username)
				return nil
			}

			return fmt.Errorf("aborting password change for user '%s' after %d attempts", username, maxPasswordTries)
		},
	}
}

// describe turns service errors into messages fit for a terminal.
func describe(err error) error {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	switch {
	case utils.IsNotFoundError(appErr):
		return errors.New("user does not exist")
	case utils.IsDuplicateError(appErr):
		return errors.New("that username is already taken")
	}
	if appErr.Field != "" {
		return fmt.Errorf("%s: %s", appErr.Field, appErr.Message)
	}
	return errors.New(appErr.Message)
}
