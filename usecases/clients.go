package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/repositories"
)

// DefaultHouseValueCents is the estimated value given to the house created
// on registration (250000.00).
const DefaultHouseValueCents int64 = 25_000_000

// CameraLocations are the spots demo notifications are attributed to.
var CameraLocations = []string{"Porta_Entrada", "Sala", "Quartito", "Cozinha", "Quintal", "Estacionamento"}

type ClientUseCase struct {
	clients       repositories.ClientRepository
	houses        repositories.HouseRepository
	notifications repositories.NotificationRepository
	audit         AuditSink

	// Shuffle reorders camera locations before demo notifications are built.
	Shuffle func([]string)
}

func NewClientUseCase(clients repositories.ClientRepository, houses repositories.HouseRepository, notifications repositories.NotificationRepository, audit AuditSink) *ClientUseCase {
	return &ClientUseCase{
		clients:       clients,
		houses:        houses,
		notifications: notifications,
		audit:         audit,
		Shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

type ClientInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	State       string
	ZipCode     string
}

// Registration is what RegisterClient managed to store.
type Registration struct {
	Client        *entities.Client
	House         *entities.House
	Notifications int
}

// RegisterClient inserts the client, one default house and a batch of demo
// notifications, in that order. Once the client is stored it is kept even if
// a later step fails; such failures come back as StepErrors alongside the
// partial Registration.
func (uc *ClientUseCase) RegisterClient(ctx context.Context, registeredBy uint, in ClientInput) (*Registration, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.FirstName == "":
		return nil, validationError("first name is required")
	case in.LastName == "":
		return nil, validationError("last name is required")
	case in.Email == "":
		return nil, validationError("email is required")
	}

	if _, err := uc.clients.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrClientEmailExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup client email: %w", err)
	}

	client := &entities.Client{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		ZipCode:     in.ZipCode,
	}
	if _, err := uc.clients.Create(ctx, client); err != nil {
		record(ctx, uc.audit, registeredBy, ActionRegisterClient, "client", entities.AuditError, err.Error())
		return nil, fmt.Errorf("insert client: %w", err)
	}
	reg := &Registration{Client: client}

	var errs []error
	house := &entities.House{
		ClientID:   client.ID,
		HouseType:  entities.DefaultHouseType,
		Address:    in.Address,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
		ValueCents: DefaultHouseValueCents,
		Status:     entities.HouseActive,
	}
	if _, err := uc.houses.Create(ctx, house); err != nil {
		errs = append(errs, &StepError{Step: "house", Err: err})
	} else {
		reg.House = house
	}

	demo := DemoNotifications(client.ID, uc.pickLocations())
	if err := uc.notifications.CreateBatch(ctx, demo); err != nil {
		errs = append(errs, &StepError{Step: "notifications", Err: err})
	} else {
		reg.Notifications = len(demo)
	}

	status := entities.AuditSuccess
	err := errors.Join(errs...)
	if err != nil {
		status = entities.AuditError
	}
	record(ctx, uc.audit, registeredBy, ActionRegisterClient, "client", status, fmt.Sprintf("client_id=%d", client.ID))
	return reg, err
}

func (uc *ClientUseCase) pickLocations() []string {
	locs := append([]string(nil), CameraLocations...)
	if uc.Shuffle != nil {
		uc.Shuffle(locs)
	}
	return locs[:3]
}

// DemoNotifications builds the unread welcome set for a new client from three
// camera locations.
func DemoNotifications(clientID uint, locations []string) []entities.Notification {
	items := []struct {
		msg      string
		typ      entities.NotificationType
		priority entities.Priority
	}{
		{"Movimento detectado na " + locations[0], entities.TypeMovement, entities.PriorityHigh},
		{"Sistema de segurança ativado", entities.TypeSystem, entities.PriorityNormal},
		{"Bateria baixa na câmara " + locations[1], entities.TypeBattery, entities.PriorityMedium},
		{"Acesso autorizado na " + locations[2], entities.TypeAccess, entities.PriorityNormal},
		{"Manutenção programada para amanhã", entities.TypeMaintenance, entities.PriorityLow},
		{"Conexão restabelecida com todas as câmaras", entities.TypeSystem, entities.PriorityNormal},
		{"Movimento detectado na " + locations[0] + " às 14:30", entities.TypeMovement, entities.PriorityHigh},
		{"Backup de dados concluído", entities.TypeSystem, entities.PriorityLow},
		{"Tentativa de acesso não autorizado", entities.TypeAccess, entities.PriorityHigh},
		{"Atualização de firmware disponível", entities.TypeSystem, entities.PriorityLow},
	}

	out := make([]entities.Notification, 0, len(items))
	for _, it := range items {
		out = append(out, entities.Notification{
			ClientID: clientID,
			Message:  it.msg,
			Type:     it.typ,
			Priority: it.priority,
			Status:   entities.StatusUnread,
		})
	}
	return out
}

func (uc *ClientUseCase) GetClient(ctx context.Context, id uint) (*entities.Client, error) {
	return uc.clients.GetByID(ctx, id)
}

func (uc *ClientUseCase) WatchClients(ctx context.Context) *live.Subscription[[]entities.Client] {
	return uc.clients.WatchAll(ctx)
}

func (uc *ClientUseCase) Search(ctx context.Context, query string) ([]entities.Client, error) {
	return uc.clients.Search(ctx, query)
}

func (uc *ClientUseCase) WatchSearch(ctx context.Context, query string) *live.Subscription[[]entities.Client] {
	return uc.clients.WatchSearch(ctx, query)
}

// DeleteClient removes the client with its houses and notifications.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, deletedBy, id uint) error {
	if _, err := uc.clients.GetByID(ctx, id); err != nil {
		return err
	}
	if err := uc.clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	record(ctx, uc.audit, deletedBy, ActionDeleteClient, "client", entities.AuditSuccess, fmt.Sprintf("client_id=%d", id))
	return nil
}

func (uc *ClientUseCase) Houses(ctx context.Context, clientID uint) ([]entities.House, error) {
	return uc.houses.GetByClientID(ctx, clientID)
}

func (uc *ClientUseCase) WatchHouses(ctx context.Context, clientID uint) *live.Subscription[[]entities.House] {
	return uc.houses.WatchByClientID(ctx, clientID)
}
