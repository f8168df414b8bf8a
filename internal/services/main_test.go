package services

import (
	"testing"

	"github.com/Lllllllleong/certificateflow/internal/certificate/certtest"
)

func TestMain(m *testing.M) {
	certtest.Main(m)
}
