package jobdef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXMLFullDocument(t *testing.T) {
	data := []byte(`
<job-scheduling-data>
  <processing-directives>
    <overwrite-existing-data>false</overwrite-existing-data>
  </processing-directives>
  <pre-processing-commands>
    <delete-jobs-in-group>reports</delete-jobs-in-group>
    <delete-triggers-in-group>reports</delete-triggers-in-group>
  </pre-processing-commands>
  <schedule>
    <job>
      <name>daily-report</name>
      <group>reports</group>
      <description>generates the daily report</description>
      <command>report --daily</command>
      <job-data-map>
        <entry><key>format</key><value>pdf</value></entry>
      </job-data-map>
    </job>
    <trigger>
      <cron>
        <name>daily-report-trigger</name>
        <group>reports</group>
        <job-name>daily-report</job-name>
        <job-group>reports</job-group>
        <cron-expression>0 0 6 * * *</cron-expression>
      </cron>
    </trigger>
  </schedule>
</job-scheduling-data>`)

	doc, err := ParseXML(data)
	require.NoError(t, err)

	assert.False(t, doc.Overwrite)
	assert.Equal(t, []string{"reports"}, doc.DeleteJobGroups)
	assert.Equal(t, []string{"reports"}, doc.DeleteTriggerGroups)

	require.Len(t, doc.Jobs, 1)
	job := doc.Jobs[0]
	assert.Equal(t, "daily-report", job.Name)
	assert.Equal(t, "reports", job.Group)
	assert.Equal(t, "report --daily", job.Command)
	assert.Equal(t, map[string]string{"format": "pdf"}, job.Data)

	require.Len(t, doc.Triggers, 1)
	trig := doc.Triggers[0]
	assert.Equal(t, "daily-report-trigger", trig.Name)
	assert.Equal(t, "0 0 6 * * *", trig.CronExpr)
	assert.Zero(t, trig.RepeatInterval)
}

func TestParseXMLOverwriteDefaultsToTrue(t *testing.T) {
	doc, err := ParseXML([]byte(`<job-scheduling-data/>`))
	require.NoError(t, err)
	assert.True(t, doc.Overwrite)
}

func TestParseXMLSimpleTriggerMilliseconds(t *testing.T) {
	data := []byte(`
<job-scheduling-data>
  <schedule>
    <job><name>ping</name><command>ping</command></job>
    <trigger>
      <simple>
        <name>ping-trigger</name>
        <job-name>ping</job-name>
        <repeat-count>-1</repeat-count>
        <repeat-interval>30000</repeat-interval>
      </simple>
    </trigger>
  </schedule>
</job-scheduling-data>`)

	doc, err := ParseXML(data)
	require.NoError(t, err)

	require.Len(t, doc.Triggers, 1)
	trig := doc.Triggers[0]
	assert.Equal(t, 30*time.Second, trig.RepeatInterval)
	assert.Equal(t, -1, trig.RepeatCount)
}

func TestParseXMLAppliesDefaultGroups(t *testing.T) {
	data := []byte(`
<job-scheduling-data>
  <schedule>
    <job><name>ping</name><command>ping</command></job>
    <trigger>
      <cron>
        <name>ping-trigger</name>
        <job-name>ping</job-name>
        <cron-expression>* * * * * *</cron-expression>
      </cron>
    </trigger>
  </schedule>
</job-scheduling-data>`)

	doc, err := ParseXML(data)
	require.NoError(t, err)

	assert.Equal(t, DefaultGroup, doc.Jobs[0].Group)
	assert.Equal(t, DefaultGroup, doc.Triggers[0].Group)
	assert.Equal(t, DefaultGroup, doc.Triggers[0].JobGroup)
}

func TestParseXMLTriggerWithoutKindFails(t *testing.T) {
	data := []byte(`
<job-scheduling-data>
  <schedule>
    <trigger></trigger>
  </schedule>
</job-scheduling-data>`)

	_, err := ParseXML(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without <simple> or <cron>")
}

func TestParseXMLUnknownJobReferenceFails(t *testing.T) {
	data := []byte(`
<job-scheduling-data>
  <schedule>
    <trigger>
      <cron>
        <name>orphan</name>
        <job-name>nope</job-name>
        <cron-expression>* * * * * *</cron-expression>
      </cron>
    </trigger>
  </schedule>
</job-scheduling-data>`)

	_, err := ParseXML(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job")
}

func TestParseXMLMalformedFails(t *testing.T) {
	_, err := ParseXML([]byte(`<job-scheduling-data`))
	require.Error(t, err)
}
