package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// Setup programmatically creates/ensures the teams, products, visits, offers
// and monthly_targets collections exist, and adds the profile fields to the
// built-in users collection.
func Setup(app *pocketbase.PocketBase) {
	teams := ensureCollection(app, "teams", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	users := ensureUserFields(app, teams)

	ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code"})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"standard", "premium"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"package", "peripheral"},
			MaxSelect: 1,
		})
		// Zero means the variant is not offered.
		c.Fields.Add(&core.NumberField{Name: "price_wired"})
		c.Fields.Add(&core.NumberField{Name: "price_wireless"})
		c.Fields.Add(&core.TextField{Name: "code_wired"})
		c.Fields.Add(&core.TextField{Name: "code_wireless"})
		c.Fields.Add(&core.NumberField{Name: "price"})
		c.Fields.Add(&core.BoolField{Name: "hub_compatible"})
		c.Fields.Add(&core.BoolField{Name: "hub2_compatible"})
		c.Fields.Add(&core.BoolField{Name: "archived"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	visits := ensureCollection(app, "visits", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			Required:      true,
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "place_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"planned", "active", "completed", "cancelled"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "started_at"})
		c.Fields.Add(&core.DateField{Name: "ended_at"})
		c.Fields.Add(&core.NumberField{Name: "duration_seconds"})
		c.Fields.Add(&core.TextField{Name: "contact_name"})
		c.Fields.Add(&core.TextField{Name: "contact_phone"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "offers", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "visit",
			Required:      true,
			CollectionId:  visits.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "user",
			Required:     true,
			CollectionId: users.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "offer_number"})
		c.Fields.Add(&core.SelectField{
			Name:      "line",
			Required:  true,
			Values:    []string{"standard", "premium"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "products_data", MaxSize: 1 << 20})
		c.Fields.Add(&core.NumberField{Name: "subscription_net"})
		c.Fields.Add(&core.NumberField{Name: "subscription_total"})
		c.Fields.Add(&core.NumberField{Name: "one_time_total"})
		c.Fields.Add(&core.NumberField{Name: "total_price"})
		c.Fields.Add(&core.BoolField{Name: "is_campaign_applied"})
		c.Fields.Add(&core.BoolField{Name: "activation_waived"})
		c.Fields.Add(&core.FileField{
			Name:      "pdf",
			MaxSelect: 1,
			MaxSize:   10 << 20,
			MimeTypes: []string{"application/pdf"},
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "monthly_targets", func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "target_type",
			Required:  true,
			Values:    []string{"user", "team"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "user",
			CollectionId:  users.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:          "team",
			CollectionId:  teams.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// YYYY-MM
		c.Fields.Add(&core.TextField{Name: "target_month", Required: true, Pattern: `^\d{4}-(0[1-9]|1[0-2])$`})
		c.Fields.Add(&core.NumberField{Name: "target_amount", Required: true, OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		zap.L().Debug("collection already exists, skipping creation", zap.String("collection", name))
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		zap.L().Fatal("failed to create collection", zap.String("collection", name), zap.Error(err))
	}

	zap.L().Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection
}

// ensureUserFields adds the sales representative profile to the users auth
// collection. Fields that already exist are left alone.
func ensureUserFields(app *pocketbase.PocketBase, teams *core.Collection) *core.Collection {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		zap.L().Fatal("users collection not found", zap.Error(err))
	}

	fields := []core.Field{
		&core.TextField{Name: "full_name"},
		&core.TextField{Name: "title"},
		&core.TextField{Name: "phone"},
		&core.TextField{Name: "city"},
		&core.RelationField{Name: "team", CollectionId: teams.Id, MaxSelect: 1},
	}

	changed := false
	for _, f := range fields {
		if users.Fields.GetByName(f.GetName()) != nil {
			continue
		}
		users.Fields.Add(f)
		changed = true
	}
	if !changed {
		return users
	}

	if err := app.Save(users); err != nil {
		zap.L().Fatal("failed to update users collection", zap.Error(err))
	}
	return users
}
