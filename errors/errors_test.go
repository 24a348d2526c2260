package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/onsi/gomega"
)

func TestCustomErrorCodes(t *testing.T) {
	g := gomega.NewWithT(t)

	g.Expect(GetStatusCode(BadRequest("INVALID_LOCALE"))).To(gomega.Equal(http.StatusBadRequest))
	g.Expect(GetStatusCode(NotFound("MODULE_NOT_FOUND"))).To(gomega.Equal(http.StatusNotFound))
	g.Expect(GetStatusCode(Conflict("DUPLICATE_KEY"))).To(gomega.Equal(http.StatusConflict))
	g.Expect(GetStatusCode(Technical("boom"))).To(gomega.Equal(http.StatusInternalServerError))
	g.Expect(GetStatusCode(fmt.Errorf("plain"))).To(gomega.Equal(http.StatusInternalServerError))
}

func TestSentinelWrapping(t *testing.T) {
	g := gomega.NewWithT(t)

	err := fmt.Errorf("module ui-users, locale en: %w", ErrDuplicateKey)
	g.Expect(Is(err, ErrDuplicateKey)).To(gomega.BeTrue())
	g.Expect(Is(err, ErrUnknownModule)).To(gomega.BeFalse())
}

func TestTechnicalf(t *testing.T) {
	g := gomega.NewWithT(t)

	err := Technicalf("failed to load %s", "translations/ui-users/en.json")
	g.Expect(err.Error()).To(gomega.ContainSubstring("ui-users"))
	g.Expect(GetStatusCode(err)).To(gomega.Equal(http.StatusInternalServerError))
}
