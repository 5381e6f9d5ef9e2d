package application

import (
	"github.com/mateusmacedo/bus-reservation/pkg/domain"
)

const (
	ListBusesQuery = "ListBuses"
	FindBusQuery   = "FindBus"
)

type BusQueryData struct {
	BusNumber string `json:"busNumber,omitempty"`
}

type busQuery struct {
	name string
	data BusQueryData
}

func (q busQuery) QueryName() string {
	return q.name
}

func (q busQuery) Payload() BusQueryData {
	return q.data
}

func NewListBusesQuery() domain.Query[BusQueryData] {
	return busQuery{name: ListBusesQuery}
}

// NewFindBusQuery busca um único ônibus; o resultado tem no máximo um elemento.
func NewFindBusQuery(data BusQueryData) domain.Query[BusQueryData] {
	return busQuery{name: FindBusQuery, data: data}
}
