package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/w365ops/cloudpcctl/internal/adapters/driven/auth"
	"github.com/w365ops/cloudpcctl/internal/adapters/driven/graph"
	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage sign-in profiles",
	Long:  `Sign in to a tenant, inspect the current profile, or sign out.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a tenant",
	Long: `Create a sign-in profile and acquire tokens for it.

Two methods are supported:

  device-code    interactive sign-in via a browser on any machine
                 (requires the CloudPC.ReadWrite.All delegated permission)
  client-secret  app-only sign-in with a client secret
                 (requires the CloudPC.ReadWrite.All application permission)

The app registration is created at portal.azure.com > App registrations.

Examples:
  cloudpcctl auth login --tenant contoso.onmicrosoft.com --client-id <app-id>
  cloudpcctl auth login --tenant <tenant-id> --client-id <app-id> --method client-secret`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured sign-in profiles",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [profile-id]",
	Short: "Remove a sign-in profile and its cached tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAuthLogout,
}

// Flags for auth login.
var (
	authTenant   string
	authClientID string
	authMethod   string
	authName     string
)

func init() {
	authLoginCmd.Flags().StringVar(&authTenant, "tenant", "", "tenant ID or domain (required)")
	authLoginCmd.Flags().StringVar(&authClientID, "client-id", "", "app registration client ID (required)")
	authLoginCmd.Flags().StringVar(&authMethod, "method", "device-code",
		"authentication method: 'device-code' or 'client-secret'")
	authLoginCmd.Flags().StringVar(&authName, "name", "", "profile name (defaults to the tenant)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}
	if authTenant == "" || authClientID == "" {
		return errors.New("--tenant and --client-id are required")
	}

	ctx := context.Background()

	name := authName
	if name == "" {
		name = authTenant
	}

	profile := domain.Profile{
		ID:       uuid.New().String(),
		Name:     name,
		TenantID: authTenant,
		ClientID: authClientID,
	}

	switch strings.ToLower(authMethod) {
	case "device-code":
		profile.Method = domain.AuthMethodDeviceCode
		return deviceCodeLogin(ctx, cmd, profile)
	case "client-secret":
		profile.Method = domain.AuthMethodClientSecret
		return clientSecretLogin(ctx, cmd, profile)
	default:
		return fmt.Errorf("invalid --method: %s (use 'device-code' or 'client-secret')", authMethod)
	}
}

// deviceCodeLogin runs the interactive device authorization flow.
func deviceCodeLogin(ctx context.Context, cmd *cobra.Command, profile domain.Profile) error {
	cmd.Println("Starting device sign-in...")

	token, err := auth.DeviceCodeLogin(ctx, profile, func(userCode, verificationURI string) {
		cmd.Printf("\nTo sign in, open %s and enter the code %s\n\n", verificationURI, userCode)
	})
	if err != nil {
		return err
	}

	// Label the profile with the signed-in account. Best effort: the
	// token already works even if the /me call does not.
	settings := domain.DefaultSettings()
	if settingsStore != nil {
		if loaded, err := settingsStore.Load(); err == nil {
			settings = loaded
		}
	}
	if info, err := graph.GetUserInfo(ctx, settings.GraphHost, token.AccessToken); err == nil {
		profile.AccountIdentifier = info.Email()
	} else {
		cmd.Printf("Warning: could not fetch account identifier: %v\n", err)
	}

	if err := credentialsStore.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := credentialsStore.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	cmd.Println("Sign-in successful!")
	if profile.AccountIdentifier != "" {
		cmd.Printf("Signed in as: %s\n", profile.AccountIdentifier)
	}
	return nil
}

// clientSecretLogin stores an app-only profile after validating the secret.
func clientSecretLogin(ctx context.Context, cmd *cobra.Command, profile domain.Profile) error {
	cmd.Print("Client secret [hidden]: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("read client secret: %w", err)
	}
	if len(secret) == 0 {
		return errors.New("client secret is required")
	}
	profile.ClientSecret = string(secret)

	if err := credentialsStore.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	// Acquire a token immediately so a bad secret fails here, not on the
	// first list call.
	provider := auth.NewProvider(profile, credentialsStore)
	if _, err := provider.GetToken(ctx); err != nil {
		if derr := credentialsStore.DeleteProfile(ctx, profile.ID); derr != nil {
			cmd.Printf("Warning: could not remove failed profile: %v\n", derr)
		}
		return err
	}

	cmd.Printf("Sign-in successful for tenant %s.\n", profile.TenantID)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}

	ctx := context.Background()
	profiles, err := credentialsStore.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	if len(profiles) == 0 {
		cmd.Println("No sign-in profiles. Run 'cloudpcctl auth login'.")
		return nil
	}

	cmd.Println("Sign-in profiles (most recent first is used):")
	cmd.Println()
	for i := range profiles {
		p := &profiles[i]
		cmd.Printf("  %s\n", p.ID)
		cmd.Printf("    Name: %s\n", p.Name)
		cmd.Printf("    Tenant: %s\n", p.TenantID)
		cmd.Printf("    Method: %s\n", p.Method)
		if p.AccountIdentifier != "" {
			cmd.Printf("    Account: %s\n", p.AccountIdentifier)
		}
		token, err := credentialsStore.GetToken(ctx, p.ID)
		if err == nil && token.Valid() {
			cmd.Printf("    Token: valid until %s\n", token.Expiry.Local().Format("15:04:05"))
		} else {
			cmd.Println("    Token: expired or absent (will be refreshed on next use)")
		}
		cmd.Println()
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}

	ctx := context.Background()

	var profile *domain.Profile
	var err error
	if len(args) == 1 {
		profile, err = credentialsStore.GetProfile(ctx, args[0])
	} else {
		profile, err = credentialsStore.DefaultProfile(ctx)
	}
	if err != nil {
		return err
	}

	if err := credentialsStore.DeleteProfile(ctx, profile.ID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	cmd.Printf("Signed out of %s (%s).\n", profile.Name, profile.TenantID)
	return nil
}
