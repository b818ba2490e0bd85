package v1

import (
	"github.com/pringinacio/ivxv/internal/models"
)

func (s *CollectorStatus) FromModel(m models.CollectorStatus) {
	s.State = string(m.State)
	s.Services = make(map[string]int, len(m.Services))
	for state, count := range m.Services {
		s.Services[string(state)] = count
	}
}

func (s *Service) FromModel(m models.Service) {
	s.Id = m.ID
	s.Type = string(m.Type)
	s.State = string(m.State)
	s.Address = m.Address
	s.Main = m.Type.IsMain()
	if len(m.Params) > 0 {
		s.Params = m.Params
	}
}

func (l *ServiceList) FromModel(m []models.Service) {
	l.Services = make([]Service, 0, len(m))
	for _, svc := range m {
		var s Service
		s.FromModel(svc)
		l.Services = append(l.Services, s)
	}
}
