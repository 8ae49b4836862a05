package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"katydid-vehicle-market/internal/cache"
	"katydid-vehicle-market/internal/prompt"
	"katydid-vehicle-market/internal/server"
	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/internal/token"
	"katydid-vehicle-market/pkg/assembler"
	"katydid-vehicle-market/pkg/catalog"
	"katydid-vehicle-market/pkg/idgen"
	"katydid-vehicle-market/pkg/usergen"
	"katydid-vehicle-market/pkg/validator"
)

// errInvalidValue validate 命令的值未通过校验
var errInvalidValue = errors.New("value is invalid")

func openStore(ctx context.Context, a *app) (*store.Store, error) {
	ids, err := idgen.NewSnowflake(a.cfg.IDGen.DatacenterID, a.cfg.IDGen.WorkerID)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(a.cfg.Database, a.cfg.Log, a.log, ids)
	if err != nil {
		return nil, err
	}
	if err := st.Ping(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("database unreachable: %w", err), st.Close())
	}
	return st, nil
}

func serve(ctx context.Context, a *app) (err error) {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	tokens, err := token.New(a.cfg.Auth)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := st.SeedCategories(ctx); err != nil {
		return err
	}

	var ads cache.AdCache = cache.Noop{}
	if a.cfg.Redis.Enabled {
		var client *redis.Client
		client, err = cache.Connect(ctx, a.cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, client.Close()) }()
		ads = cache.NewRedis(client, a.cfg.Redis.AdTTL)
		a.log.Info("ad cache enabled", zap.String("addr", a.cfg.Redis.Addr))
	}

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return server.New(a.cfg.Server, st, ads, tokens, a.log).Run(ctx)
}

func migrate(ctx context.Context, a *app) (err error) {
	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := st.SeedCategories(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "schema is up to date")
	return nil
}

func createUser(ctx context.Context, a *app) (err error) {
	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	p := prompt.New(a.in, a.out)
	p.Printf("User details\n")
	user, err := prompt.Collect(ctx, p, prompt.UserForm(), nil, assembler.AssembleUser)
	if err != nil {
		return err
	}
	p.Printf("Address\n")
	address, err := prompt.Collect(ctx, p, prompt.AddressForm(), nil, assembler.AssembleAddress)
	if err != nil {
		return err
	}

	created, err := st.CreateUser(ctx, user, address)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s created (id %d)\n", created.Username, created.ID)
	return nil
}

func createAdFlags(fs *pflag.FlagSet) {
	fs.Int64("user", 0, "id of the advertising user")
	fs.Int64("category", store.CategoryCar, "vehicle category id")
}

func createAd(ctx context.Context, a *app) (err error) {
	userID, _ := a.fs.GetInt64("user")
	categoryID, _ := a.fs.GetInt64("category")
	if userID <= 0 {
		return fmt.Errorf("%w: --user is required", errUsage)
	}

	cat, err := catalog.Load(a.cfg.Catalog.Path)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	p := prompt.New(a.in, a.out)
	maker, model, err := prompt.PickVehicle(ctx, p, cat)
	if err != nil {
		return err
	}
	if !validator.ValidateModel(model).IsValid() {
		model, err = prompt.Ask(ctx, p, "Model", validator.ValidateModel)
		if err != nil {
			return err
		}
	}

	preset := validator.Draft{
		assembler.FieldUserID:     userID,
		assembler.FieldCategoryID: categoryID,
		assembler.FieldMaker:      maker,
		assembler.FieldModel:      model,
	}
	ad, err := prompt.Collect(ctx, p, prompt.VehicleAdForm(), preset, assembler.AssembleVehicleAd)
	if err != nil {
		return err
	}

	created, err := st.CreateAdvertisement(ctx, ad)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "advertisement %d created for %s %s\n", created.ID, maker, model)
	return nil
}

func seedVehiclesFlags(fs *pflag.FlagSet) {
	fs.String("catalog", "", "catalog file (.json|.yaml), defaults to catalog.path")
	fs.Int64("category", store.CategoryCar, "vehicle category id")
}

func seedVehicles(ctx context.Context, a *app) (err error) {
	path, _ := a.fs.GetString("catalog")
	if path == "" {
		path = a.cfg.Catalog.Path
	}
	categoryID, _ := a.fs.GetInt64("category")

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if err := st.SeedCategories(ctx); err != nil {
		return err
	}
	created, err := st.ImportVehicles(ctx, categoryID, cat.Entries())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d new vehicles from %d brands\n", created, cat.Len())
	return nil
}

func seedUsersFlags(fs *pflag.FlagSet) {
	fs.Int("count", 10, "number of random users to generate")
	fs.Int64("seed", 0, "random seed, 0 uses the current time")
	fs.Float64("invalid-ratio", 0, "share of drafts to corrupt before validation (0..1)")
}

// seedUsers 生成随机用户草稿，经装配器校验后入库，按原因码统计被拒绝的草稿
func seedUsers(ctx context.Context, a *app) (err error) {
	count, _ := a.fs.GetInt("count")
	seed, _ := a.fs.GetInt64("seed")
	ratio, _ := a.fs.GetFloat64("invalid-ratio")
	if count <= 0 {
		return fmt.Errorf("%w: --count must be positive", errUsage)
	}
	if ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: --invalid-ratio must be within [0,1]", errUsage)
	}

	st, err := openStore(ctx, a)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	gen := usergen.New(nil)
	if seed != 0 {
		gen = usergen.NewSeeded(seed)
	}
	corrupt := usergen.NewSeeded(seed + 1)

	var accepted, rejected, duplicates int
	byCode := make(map[validator.Code]int)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		userDraft, addrDraft := gen.Pair()
		// 按比例均匀挑选被破坏的草稿，总数为 floor(count*ratio)
		if math.Floor(float64(i+1)*ratio) > math.Floor(float64(i)*ratio) {
			corrupt.Corrupt(userDraft)
		}

		userOut := assembler.AssembleUser(userDraft)
		addrOut := assembler.AssembleAddress(addrDraft)
		if !userOut.IsValid() || !addrOut.IsValid() {
			report := validator.NewReport(assembler.EntityUser)
			report.Merge("", userOut.Report())
			report.Merge(assembler.EntityAddress+".", addrOut.Report())
			for _, code := range validator.Codes() {
				byCode[code] += len(report.GetErrorsByCode(code))
			}
			if data, jerr := report.ToJSON(); jerr == nil {
				a.log.Debug("draft rejected", zap.Int("index", i), zap.ByteString("report", data))
			}
			rejected++
			continue
		}

		_, err := st.CreateUser(ctx, userOut.Value(), addrOut.Value())
		switch {
		case errors.Is(err, store.ErrDuplicate):
			duplicates++
		case err != nil:
			return err
		default:
			accepted++
		}
	}

	fmt.Fprintf(a.out, "generated %d users: %d accepted, %d rejected, %d duplicates\n", count, accepted, rejected, duplicates)
	for _, code := range validator.Codes() {
		if n := byCode[code]; n > 0 {
			fmt.Fprintf(a.out, "  %-24s %d\n", code, n)
		}
	}
	return nil
}

func validate(_ context.Context, a *app) error {
	args := a.fs.Args()
	if len(args) != 2 {
		return fmt.Errorf("%w: validate <kind> <value>", errUsage)
	}
	kind, ok := validator.ParseFieldKind(args[0])
	if !ok {
		return fmt.Errorf("%w: unknown field kind %q", errUsage, args[0])
	}

	out := validator.Validate(kind, args[1])
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if out.IsValid() {
		return enc.Encode(map[string]any{"kind": kind.String(), "valid": true, "value": out.Value()})
	}
	if err := enc.Encode(map[string]any{"kind": kind.String(), "valid": false, "reasons": out.Reasons()}); err != nil {
		return err
	}
	return errInvalidValue
}
