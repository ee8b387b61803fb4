package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/moyklass/moyklass"
)

var (
	userList      moyklass.UserListParams
	userSort      string
	userSortDir   string
	userPhone     string
	userEmail     string
	userName      string
	userAmoCRMID  int
	userBitrixID  int
	userFilials   []int
	userManagers  []int
	userAdvSource int
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage Moyklass users (clients)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show a single user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE:  runUsersCreate,
}

var usersAttributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List custom user attributes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context) error {
			resp, err := client.Users.Attributes(ctx)
			if err != nil {
				return err
			}
			return printList(ctx, resp, "")
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersCreateCmd, usersAttributesCmd)

	f := usersListCmd.Flags()
	f.StringSliceVar(&userList.CreatedAt, "created-at", nil, "creation date or date range (repeat for a range)")
	f.StringSliceVar(&userList.UpdatedAt, "updated-at", nil, "update date or date range")
	f.StringSliceVar(&userList.StateChangeAt, "state-changed-at", nil, "state change date or date range")
	f.StringVar(&userPhone, "phone", "", "phone number")
	f.StringVar(&userEmail, "email", "", "e-mail address")
	f.StringVar(&userName, "name", "", "name")
	f.StringVar(&userSort, "sort", "id", "sort field (id, name, createdAt, updatedAt)")
	f.StringVar(&userSortDir, "sort-direction", "asc", "sort direction (asc, desc)")
	f.IntVar(&userAmoCRMID, "amocrm-contact-id", 0, "amoCRM contact ID")
	f.IntVar(&userBitrixID, "bitrix-contact-id", 0, "Bitrix24 contact ID")
	f.BoolVar(&userList.IncludePayLink, "include-pay-link", false, "include payment links")
	addPageFlags(usersListCmd, &userList.Page)

	f = usersCreateCmd.Flags()
	f.StringVar(&userName, "name", "", "name")
	f.StringVar(&userPhone, "phone", "", "phone number")
	f.StringVar(&userEmail, "email", "", "e-mail address")
	f.IntVar(&userAdvSource, "adv-source-id", 0, "advertising source ID")
	f.IntSliceVar(&userFilials, "filial", nil, "branch IDs")
	f.IntSliceVar(&userManagers, "responsible", nil, "responsible manager IDs")
	_ = usersCreateCmd.MarkFlagRequired("name")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	sort, err := moyklass.ParseUserSort(userSort)
	if err != nil {
		return err
	}
	direction, err := moyklass.ParseSortDirection(userSortDir)
	if err != nil {
		return err
	}

	params := userList
	params.Sort = sort
	params.SortDirection = direction
	params.Phone = optString(cmd, "phone", userPhone)
	params.Email = optString(cmd, "email", userEmail)
	params.Name = optString(cmd, "name", userName)
	params.AmoCRMContactID = optInt(cmd, "amocrm-contact-id", userAmoCRMID)
	params.BitrixContactID = optInt(cmd, "bitrix-contact-id", userBitrixID)

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Users.List(ctx, &params)
		if err != nil {
			return err
		}
		return printList(ctx, resp, "users")
	})
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "user")
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		return printObject(resp)
	})
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	params := &moyklass.UserParams{
		Name:         userName,
		Phone:        optString(cmd, "phone", userPhone),
		Email:        optString(cmd, "email", userEmail),
		AdvSourceID:  optInt(cmd, "adv-source-id", userAdvSource),
		Filials:      userFilials,
		Responsibles: userManagers,
	}

	return withSession(cmd, func(ctx context.Context) error {
		resp, err := client.Users.Create(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		okLabel.Fprintln(cmd.ErrOrStderr(), "✓ User created")
		return printObject(resp)
	})
}
