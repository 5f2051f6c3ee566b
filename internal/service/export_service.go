package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头后写入 Response
type ExportService interface {
	// ExportGradeRoster 导出课程成绩单为 Excel
	ExportGradeRoster(ctx context.Context, courseID, instructorID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	grades GradeService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(grades GradeService, logger *zap.Logger) ExportService {
	return &exportService{grades: grades, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportGradeRoster — 导出成绩单
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "成绩单"
//   - 第 1 行标题：课程名称
//   - 第 2 行表头：学员 | 邮箱 | 已提交 | 已评分 | 当前成绩 | 预期总评
//   - 当前成绩为空（尚无评分）时写 "-"

func (s *exportService) ExportGradeRoster(ctx context.Context, courseID, instructorID string) (*bytes.Buffer, string, error) {
	roster, err := s.grades.CourseRoster(ctx, courseID, instructorID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "成绩单"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headers := []string{"学员", "邮箱", "已提交", "已评分", "当前成绩", "预期总评"}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 18)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "F", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 成绩单（作业 %d 项）", roster.CourseTitle, roster.Assignments))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, entry := range roster.Learners {
		f.SetCellValue(sheetName, cell("A", row), entry.LearnerName)
		f.SetCellValue(sheetName, cell("B", row), entry.Email)
		f.SetCellValue(sheetName, cell("C", row), entry.SubmittedCount)
		f.SetCellValue(sheetName, cell("D", row), entry.GradedCount)
		if entry.CurrentGrade != nil {
			f.SetCellValue(sheetName, cell("E", row), *entry.CurrentGrade)
		} else {
			f.SetCellValue(sheetName, cell("E", row), "-")
		}
		f.SetCellValue(sheetName, cell("F", row), entry.ExpectedFinalGrade)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("成绩单_%s.xlsx", roster.CourseTitle)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
