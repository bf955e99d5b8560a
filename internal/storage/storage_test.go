package storage

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS kv_entries (
			key VARCHAR(255) PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		// Docker is optional; the postgres cases skip without it
		log.Printf("postgres container unavailable: %v", err)
		testDB = nil
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func newMiniredisStore(t *testing.T) *RedisStore {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client)
}

func storesUnderTest(t *testing.T) map[string]Store {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  newMiniredisStore(t),
	}
	if testDB != nil {
		stores["postgres"] = NewPostgresStore(testDB)
	}
	return stores
}

func TestStore_MissingKey(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "burns-farm-missing")
			if !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("expected ErrKeyNotFound, got %v", err)
			}

			var v []string
			found, err := GetJSON(context.Background(), s, "burns-farm-missing", &v)
			if err != nil || found {
				t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
			}
		})
	}
}

func TestStore_PutOverwritesWholeValue(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "burns-farm-overwrite-" + name

			if err := PutJSON(ctx, s, key, []string{"a", "b", "c"}); err != nil {
				t.Fatalf("first put failed: %v", err)
			}
			if err := PutJSON(ctx, s, key, []string{"d"}); err != nil {
				t.Fatalf("second put failed: %v", err)
			}

			var got []string
			found, err := GetJSON(ctx, s, key, &got)
			if err != nil || !found {
				t.Fatalf("expected value, got found=%v err=%v", found, err)
			}
			if len(got) != 1 || got[0] != "d" {
				t.Errorf("expected [d], got %v", got)
			}

			if err := s.Delete(ctx, key); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("expected key to be gone, got %v", err)
			}
		})
	}
}

// Documents survive a put/get round trip unchanged
func TestProperty_DocumentsRoundTrip(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			properties := gopter.NewProperties(nil)

			properties.Property("stored documents decode to the written value", prop.ForAll(
				func(key string, values map[string]int) bool {
					ctx := context.Background()
					if err := PutJSON(ctx, s, key, values); err != nil {
						t.Logf("FAIL: put: %v", err)
						return false
					}

					got := map[string]int{}
					found, err := GetJSON(ctx, s, key, &got)
					if err != nil || !found {
						t.Logf("FAIL: get: found=%v err=%v", found, err)
						return false
					}
					if len(got) != len(values) {
						return false
					}
					for k, v := range values {
						if got[k] != v {
							return false
						}
					}
					return true
				},
				gen.RegexMatch(`burns-farm-[a-z]{3,12}`),
				gen.MapOf(gen.AlphaString(), gen.IntRange(0, 1000)),
			))

			properties.TestingRun(t, gopter.ConsoleReporter(false))
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte(`["x"]`)
	_ = s.Put(ctx, "k", in)
	in[2] = 'y'

	out, _ := s.Get(ctx, "k")
	if string(out) != `["x"]` {
		t.Fatalf("stored value was aliased: %s", out)
	}
	out[2] = 'z'

	again, _ := s.Get(ctx, "k")
	if string(again) != `["x"]` {
		t.Fatalf("returned value was aliased: %s", again)
	}
}

func TestKeys(t *testing.T) {
	k := Keys{Namespace: "burns-farm"}

	cases := map[string]string{
		k.Orders():               "burns-farm-orders",
		k.Products():             "burns-farm-products",
		k.Users():                "burns-farm-users",
		k.Invitations():          "burns-farm-invitations",
		k.Cart("abc"):            "burns-farm-cart:abc",
		k.CookieConsent("v-123"): "burns-farm-cookie-consent:v-123",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
