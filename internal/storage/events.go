package storage

import (
	"errors"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/models"

	"gorm.io/gorm"
)

// ResolveEventAuthorization answers whether a user may chat within an event:
// as its host, or as an accepted participant.
func (s *Service) ResolveEventAuthorization(eventID, userID string) (models.EventAuthorization, error) {
	var event models.Event
	err := s.DB.Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EventAuthorization{}, chaterr.Newf(chaterr.NotFound, "event %s not found", eventID)
	}
	if err != nil {
		return models.EventAuthorization{}, chaterr.Wrap(chaterr.Internal, "event lookup failed", err)
	}

	auth := models.EventAuthorization{IsHost: event.HostID == userID}
	if auth.IsHost {
		return auth, nil
	}

	var n int64
	err = s.DB.Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.EventParticipantAccepted).
		Count(&n).Error
	if err != nil {
		return models.EventAuthorization{}, chaterr.Wrap(chaterr.Internal, "participant lookup failed", err)
	}
	auth.IsParticipant = n > 0
	return auth, nil
}

func (s *Service) SaveEvent(event *models.Event) error {
	if err := s.DB.Save(event).Error; err != nil {
		return chaterr.Wrap(chaterr.Internal, "event save failed", err)
	}
	return nil
}

// AcceptEventParticipant upserts the participant row into accepted status.
func (s *Service) AcceptEventParticipant(eventID, userID string) error {
	var participant models.EventParticipant
	err := s.DB.Where("event_id = ? AND user_id = ?", eventID, userID).
		FirstOrCreate(&participant, models.EventParticipant{EventID: eventID, UserID: userID}).Error
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "participant upsert failed", err)
	}
	if participant.Status == models.EventParticipantAccepted {
		return nil
	}
	err = s.DB.Model(&participant).Update("status", models.EventParticipantAccepted).Error
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "participant update failed", err)
	}
	return nil
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, chaterr.Newf(chaterr.NotFound, "user %s not found", userID)
	}
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "user lookup failed", err)
	}
	return &user, nil
}

// EnsureUser creates the user row on first contact and returns it.
func (s *Service) EnsureUser(userID, displayName string) (*models.User, error) {
	var user models.User
	defaults := models.User{ID: userID, DisplayName: displayName}
	err := s.DB.Where("id = ?", userID).FirstOrCreate(&user, defaults).Error
	if err != nil {
		return nil, chaterr.Wrap(chaterr.Internal, "user upsert failed", err)
	}
	return &user, nil
}
