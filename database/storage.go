package database

import (
	"context"
	"fmt"

	appointmentRepo "medipulse/database/repository/appointment"
	auditRepo "medipulse/database/repository/audit"
	doctorRepo "medipulse/database/repository/doctor"
	"medipulse/database/repository/memory"
	schedulerRepo "medipulse/database/repository/scheduler"
	userRepo "medipulse/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Storage is the set of repositories for one driver.
type Storage struct {
	Doctors      doctorRepo.DoctorRepository
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Audit        auditRepo.AuditRepository
	Bookings     schedulerRepo.BookingStore

	// Client is nil for the memory driver.
	Client *mongo.Client
}

// OpenStorage connects the configured driver. The mongo driver needs a replica
// set because booking runs in a transaction.
func OpenStorage(ctx context.Context, driver, uri, dbName string, logger *zap.Logger) (*Storage, error) {
	switch driver {
	case DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &Storage{
			Doctors:      store.Doctors,
			Users:        store.Users,
			Appointments: store.Appointments,
			Audit:        store.Audit,
			Bookings:     store,
		}, nil
	case DriverMongo, "":
		client, err := Connect(ctx, uri)
		if err != nil {
			return nil, err
		}
		db := client.Database(dbName)
		if err := doctorRepo.EnsureIndexes(ctx, db); err != nil {
			logger.Warn("doctor indexes not ensured", zap.Error(err))
		}
		if err := appointmentRepo.EnsureIndexes(ctx, db); err != nil {
			logger.Warn("appointment indexes not ensured", zap.Error(err))
		}
		logger.Info("connected to MongoDB", zap.String("database", dbName))
		return &Storage{
			Doctors:      doctorRepo.NewMongoDoctorRepo(db),
			Users:        userRepo.NewMongoUserRepo(db),
			Appointments: appointmentRepo.NewMongoAppointmentRepo(db),
			Audit:        auditRepo.NewMongoAuditRepo(db),
			Bookings:     schedulerRepo.NewMongoSchedulerRepo(db),
			Client:       client,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

func (s *Storage) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
