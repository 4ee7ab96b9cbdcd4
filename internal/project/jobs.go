package project

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/model"
)

// JobExtension is the file extension used for saved jobs.
const JobExtension = ".linecut"

// SaveJob writes a job, including its last result if any, as JSON.
func SaveJob(path string, job model.Job) error {
	return writeJSON(path, job)
}

// LoadJob reads a job saved by SaveJob. Missing option fields are filled
// with their defaults.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, errors.Wrapf(err, "read job %s", path)
	}
	job := model.NewJob()
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, errors.Wrapf(err, "parse job %s", path)
	}
	job.Options = job.Options.Normalized()
	if job.Stocks == nil {
		job.Stocks = []model.StockUnit{}
	}
	if job.Pieces == nil {
		job.Pieces = []model.PieceType{}
	}
	return job, nil
}
