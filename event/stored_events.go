package event

import (
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"

	"oficina/persistence"
)

var (
	EventPersistCreateFunc = eventPersistCreate
	MarkEventSyncedFunc    = markEventSynced
	LoadUnsyncedEventsFunc = loadUnsyncedEvents
)

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

func markEventSynced(id types.ID) error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	return db.Model(&EventRecord{}).Where("id = ?", id).Update("synced", true).Error
}

func loadUnsyncedEvents(lastId types.ID, size int) ([]EventRecord, error) {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []EventRecord
	if err := db.Where("synced = ? AND id > ?", false, lastId).
		Order("id ASC").Limit(size).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
