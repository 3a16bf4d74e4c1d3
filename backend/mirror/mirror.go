// Package mirror keeps a best-effort spreadsheet copy of every account.
// Exports run after mutations and never fail the request that triggered
// them; the workbook and the database may diverge if an export is lost.
package mirror

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/fuxconcurseiro/spartajus-backend/backend/models"
)

const sheetName = "Accounts"

var header = []string{"Username", "Role", "CreatedAt", "TreeBranches", "ModMessage", "Subjects", "Logs", "Plans"}

type Exporter struct {
	Path   string
	Logger *log.Logger
}

func NewExporter(path string, logger *log.Logger) *Exporter {
	if path == "" {
		return nil
	}
	return &Exporter{Path: path, Logger: logger}
}

// Queue fires an export in the background. Safe to call on a nil
// exporter (mirroring disabled).
func (e *Exporter) Queue(db *gorm.DB) {
	if e == nil {
		return
	}
	go func() {
		if err := e.Export(db); err != nil {
			e.Logger.Printf("mirror export failed: %v", err)
		}
	}()
}

// Export writes one row per account: identity columns plus the log and
// plan collections serialized as JSON cells.
func (e *Exporter) Export(db *gorm.DB) error {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	for row, u := range users {
		var logs []models.StudyLog
		db.Where("user_id = ?", u.ID).Order("date").Find(&logs)
		var plans []models.Plan
		db.Where("user_id = ?", u.ID).Order("date").Find(&plans)

		logsJSON, _ := json.Marshal(logs)
		plansJSON, _ := json.Marshal(plans)
		subjectsJSON, _ := json.Marshal(u.Subjects)

		values := []interface{}{
			u.Username,
			u.Role,
			u.CreatedAt.Format("2006-01-02 15:04:05"),
			u.TreeBranches,
			u.ModMessage,
			string(subjectsJSON),
			string(logsJSON),
			string(plansJSON),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	return f.SaveAs(e.Path)
}

// Restore re-imports accounts from the workbook. Only runs against an
// empty database; any read error yields no accounts rather than failing
// startup.
func (e *Exporter) Restore(db *gorm.DB) {
	if e == nil {
		return
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	if _, err := os.Stat(e.Path); err != nil {
		return
	}

	f, err := excelize.OpenFile(e.Path)
	if err != nil {
		e.Logger.Printf("mirror restore skipped: %v", err)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil || len(rows) < 2 {
		return
	}

	restored := 0
	for _, row := range rows[1:] {
		if len(row) < len(header) || row[0] == "" {
			continue
		}

		user := models.User{
			Username:     row[0],
			Role:         row[1],
			PasswordHash: "", // locked until the moderator resets it
			ModMessage:   row[4],
		}
		if n, err := strconv.Atoi(row[3]); err == nil {
			user.TreeBranches = n
		}
		json.Unmarshal([]byte(row[5]), &user.Subjects)

		if err := db.Create(&user).Error; err != nil {
			e.Logger.Printf("mirror restore: user %s: %v", row[0], err)
			continue
		}

		var logs []models.StudyLog
		if json.Unmarshal([]byte(row[6]), &logs) == nil {
			for i := range logs {
				logs[i].ID = 0
				logs[i].UserID = user.ID
				db.Create(&logs[i])
			}
		}
		var plans []models.Plan
		if json.Unmarshal([]byte(row[7]), &plans) == nil {
			for i := range plans {
				plans[i].ID = 0
				plans[i].UserID = user.ID
				db.Create(&plans[i])
			}
		}
		restored++
	}

	if restored > 0 {
		e.Logger.Printf("mirror restore: %d accounts imported from %s", restored, e.Path)
	}
}
