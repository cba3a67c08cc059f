//go:build testutils

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/sevphysionet/sectioner/internal"
	"github.com/sevphysionet/sectioner/pkg/testutils"
)

var testDB *bun.DB
var testCtx context.Context

func TestMain(m *testing.M) {
	setup()
	exitCode := m.Run()
	tearDown()

	os.Exit(exitCode)
}

func setup() {
	logger := internal.GetLogger()
	internal.SetLogLevel(logrus.DebugLevel)

	var err error
	testDB, err = NewPostgresConn(testutils.GetDSN())
	if err != nil {
		panic(err)
	}
	testutils.SetUpDBLogging(testDB, logger)

	testCtx = context.Background()
}

func tearDown() {
	if err := testDB.Close(); err != nil {
		panic(err)
	}
}
