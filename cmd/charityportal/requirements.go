package main

import (
	"context"
	"fmt"

	"charityportal/internal/db"
	"charityportal/internal/lookup"
	"charityportal/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

// requirementsCommand prints the requirement catalog the service would load
// and the partner policy built from it, so a bad PARTNER_REQUIREMENTS value
// can be spotted before deploying.
var requirementsCommand = &cli.Command{
	Name:  "requirements",
	Usage: "Print the attachment requirement catalog and partner policy",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		source, err := lookupSource(cfg, pool)
		if err != nil {
			return err
		}

		catalog := lookup.NewCatalog(source, cfg)

		requirements, err := catalog.Requirements(ctx)
		if err != nil {
			return err
		}

		pp.Println(requirements)

		opts, err := catalog.Options(ctx)
		if err != nil {
			return err
		}

		policy := make(map[types.PartnerType][]string, len(types.PartnerTypes))
		for _, partnerType := range types.PartnerTypes {
			names := make([]string, 0)
			for _, req := range opts.Policy.Requirements(partnerType) {
				names = append(names, fmt.Sprintf("%d %s", req.ID, req.Name))
			}
			policy[partnerType] = names
		}

		pp.Println(policy)

		return nil
	},
}
