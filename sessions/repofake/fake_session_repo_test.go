package sessionrepofake_test

import (
	"testing"

	sessionrepofake "github.com/jrsteele09/go-church-admin/sessions/repofake"
	"github.com/jrsteele09/go-church-admin/sessions/repotest"
)

func TestFakeSessionRepo(t *testing.T) {
	repotest.Run(t, sessionrepofake.NewFakeSessionRepo())
}
