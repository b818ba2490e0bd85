package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/pringinacio/ivxv/api/v1"
	"github.com/pringinacio/ivxv/internal/handlers"
	"github.com/pringinacio/ivxv/internal/services"
	"github.com/pringinacio/ivxv/internal/store"
	"github.com/pringinacio/ivxv/internal/store/migrations"
)

var _ = Describe("Handler", func() {
	var (
		ctx    context.Context
		values *store.ValueStore
		router *gin.Engine
	)

	set := func(key, value string) {
		Expect(values.SetValue(ctx, key, value)).To(Succeed())
	}

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1"+path, nil)
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		ctx = context.Background()
		db, err := store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		s := store.NewStore(db)
		DeferCleanup(s.Close)
		values = s.Values()

		set("collector/state", "CONFIGURED")
		set("service/voting@voting1.ivxv/service-type", "voting")
		set("service/voting@voting1.ivxv/state", "CONFIGURED")
		set("service/voting@voting1.ivxv/ip-address", "voting1.ivxv:443")
		set("service/backup@backup.ivxv/service-type", "backup")
		set("service/backup@backup.ivxv/state", "REMOVED")
		set("service/backup@backup.ivxv/ip-address", "backup.ivxv")
		set("service/backup@backup.ivxv/backup-times", "01:00")

		gin.SetMode(gin.TestMode)
		router = gin.New()
		h := handlers.New(services.NewStatusService(services.NewSelector(values)))
		v1.RegisterHandlers(router.Group("/api/v1"), h)
	})

	It("returns the collector status", func() {
		w := get("/collector")
		Expect(w.Code).To(Equal(http.StatusOK))

		var status v1.CollectorStatus
		Expect(json.Unmarshal(w.Body.Bytes(), &status)).To(Succeed())
		Expect(status.State).To(Equal("CONFIGURED"))
		Expect(status.Services).To(Equal(map[string]int{"CONFIGURED": 1, "REMOVED": 1}))
	})

	It("lists non-removed services", func() {
		w := get("/services")
		Expect(w.Code).To(Equal(http.StatusOK))

		var list v1.ServiceList
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Services).To(HaveLen(1))
		Expect(list.Services[0].Id).To(Equal("voting@voting1.ivxv"))
		Expect(list.Services[0].Main).To(BeTrue())
	})

	It("filters services by type", func() {
		w := get("/services?type=backup")
		Expect(w.Code).To(Equal(http.StatusOK))

		var list v1.ServiceList
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Services).To(BeEmpty())
	})

	It("rejects unknown service types", func() {
		Expect(get("/services?type=printer").Code).To(Equal(http.StatusBadRequest))
	})

	It("returns removed services by id", func() {
		w := get("/services/backup@backup.ivxv")
		Expect(w.Code).To(Equal(http.StatusOK))

		var svc v1.Service
		Expect(json.Unmarshal(w.Body.Bytes(), &svc)).To(Succeed())
		Expect(svc.State).To(Equal("REMOVED"))
		Expect(svc.Params).To(Equal(map[string]string{"backup-times": "01:00"}))
	})

	It("returns 404 for unknown services", func() {
		Expect(get("/services/voting@nowhere").Code).To(Equal(http.StatusNotFound))
	})

	It("reports an inconsistent state as a conflict", func() {
		set("collector/state", "UNKNOWN")
		Expect(get("/collector").Code).To(Equal(http.StatusConflict))
	})
})
