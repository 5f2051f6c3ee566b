package service

import "math"

// GradeInput 一个可见作业在成绩计算中的输入
// Score 仅在提交已评分且分数非空时赋值
type GradeInput struct {
	Weight float64
	Score  *int
}

// GradeResult 成绩计算结果
type GradeResult struct {
	Current     *float64 // 仅已评分作业的加权平均；没有已评分作业时为 nil
	Expected    float64  // 所有作业计入分母，未评分/未提交按 0 计
	GradedCount int
}

// ComputeGrade 每次请求从头计算，不做缓存或增量维护
func ComputeGrade(items []GradeInput) GradeResult {
	var (
		gradedWeighted float64
		gradedWeight   float64
		totalWeight    float64
		gradedCount    int
	)

	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}
		totalWeight += it.Weight
		if it.Score != nil {
			gradedWeighted += float64(*it.Score) * it.Weight
			gradedWeight += it.Weight
			gradedCount++
		}
	}

	result := GradeResult{GradedCount: gradedCount}
	if gradedWeight > 0 {
		current := round2(gradedWeighted / gradedWeight)
		result.Current = &current
	}
	if totalWeight > 0 {
		result.Expected = round2(gradedWeighted / totalWeight)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
