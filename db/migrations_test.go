package db_test

import (
	"context"
	"testing"

	"github.com/divron/attendance/db"
	"github.com/divron/attendance/internal/storage/gormstore"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMigrations(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Migrations Suite")
}

var _ = Describe("Migrations", func() {
	It("should create the kv_entries table on sqlite and roll it back", func() {
		ctx := context.Background()
		gdb, err := gormstore.OpenDB(gormstore.Options{Driver: "sqlite", Source: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		defer sqlDB.Close()

		Expect(db.Up(ctx, sqlDB, "sqlite")).To(Succeed())

		version, err := db.Version(ctx, sqlDB, "sqlite")
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(int64(1)))

		store := gormstore.New(gdb)
		Expect(store.Set(ctx, "employees", []byte("[]"))).To(Succeed())

		Expect(db.Down(ctx, sqlDB, "sqlite")).To(Succeed())
		version, err = db.Version(ctx, sqlDB, "sqlite")
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(int64(0)))
	})

	It("should reject drivers without migrations", func() {
		Expect(db.Up(context.Background(), nil, "redis")).To(MatchError(ContainSubstring("no migrations")))
	})
})
