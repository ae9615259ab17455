package goquery_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hweisong/tenderparse"
	"github.com/hweisong/tenderparse/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Parser implements tenderparse.Parser at compile time.
var _ tenderparse.Parser = (*goquery.Parser)(nil)

// standardAnnouncementHTML is a complete standard-template announcement
// with all seven chapters marked by strong headings.
const standardAnnouncementHTML = `<!DOCTYPE html>
<html>
<head><title>招标公告</title></head>
<body>
<div class="ewb-info-intro">
	<span>发布时间：2025-06-01 09:30:00</span>
	<span id="infod">石家庄市</span>
</div>
<div class="ewb-copy">
	<p><strong>项目概况</strong></p>
	<p>石家庄市第一中学实验室设备购置项目的潜在投标人应在河北省公共资源交易平台获取招标文件，并于 2025-06-20 09:00(北京时间)前递交投标文件。</p>
	<p><strong>一、项目基本情况</strong></p>
	<p>项目编号：HB2025-JZ-001</p>
	<p>项目名称：石家庄市第一中学实验室设备购置项目</p>
	<p>预算金额：200万元</p>
	<p>招标方式：公开招标</p>
	<p><strong>二、申请人资格要求</strong></p>
	<p>满足《中华人民共和国政府采购法》第二十二条规定。</p>
	<p><strong>三、获取招标文件</strong></p>
	<p>时间：2025-06-01 至 2025-06-08，每天上午9:00至下午17:00（北京时间，法定节假日除外）。</p>
	<p><strong>四、提交投标文件截止时间、开标时间和地点</strong></p>
	<p>2025-06-20 09:00（北京时间）</p>
	<p>地点：河北省公共资源交易中心开标一室</p>
	<p><strong>五、公告期限</strong></p>
	<p>自本公告发布之日起5个工作日。</p>
	<p><strong>六、其他补充事宜</strong></p>
	<p>无。</p>
	<p><strong>七、对本次招标提出询问，请按以下方式联系</strong></p>
	<p>1.采购人信息</p>
	<p>名称：石家庄市第一中学</p>
	<p>地址：石家庄市长安区育才街1号</p>
	<p>联系方式：0311-12345678</p>
	<p>2.采购代理机构信息</p>
	<p>名称：河北诚信招标代理有限公司</p>
	<p>地址：石家庄市桥西区中华大街88号</p>
	<p>联系方式：0311-87654321</p>
	<p>3.项目联系方式</p>
	<p>项目联系人：王工</p>
	<p>电话：0311-11112222</p>
</div>
</body>
</html>`

func newTestParser() *goquery.Parser {
	return goquery.NewParser(tenderparse.DefaultConfig())
}

func TestParser_Parse_StandardTemplate(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	rec := p.Parse("info-001", "http://example.com/notice/1", standardAnnouncementHTML, "")

	assert.Equal(t, tenderparse.StatusSuccess, rec.Status)
	assert.Empty(t, rec.ErrorMessage)
	assert.Equal(t, "info-001", rec.InfoID)
	assert.Equal(t, "http://example.com/notice/1", rec.SourceURL)

	t.Run("maps identity fields", func(t *testing.T) {
		assert.Equal(t, "HB2025-JZ-001", rec.ProjectNo)
		assert.Equal(t, "石家庄市第一中学实验室设备购置项目", rec.ProjectName)
		assert.Equal(t, "公开招标", rec.TenderMethod)
	})

	t.Run("resolves the budget in yuan", func(t *testing.T) {
		require.NotNil(t, rec.BudgetAmount)
		assert.Equal(t, "2000000", rec.BudgetAmount.String())
	})

	t.Run("extracts publish time and area from the intro block", func(t *testing.T) {
		require.NotNil(t, rec.PublishTime)
		assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local), *rec.PublishTime)
		assert.Equal(t, "石家庄市", rec.Area)
	})

	t.Run("resolves the document acquisition window", func(t *testing.T) {
		require.NotNil(t, rec.DocAcquisitionStart)
		require.NotNil(t, rec.DocAcquisitionEnd)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), *rec.DocAcquisitionStart)
		assert.Equal(t, time.Date(2025, 6, 8, 23, 59, 59, 0, time.Local), *rec.DocAcquisitionEnd)
	})

	t.Run("resolves deadline, opening time and venue", func(t *testing.T) {
		require.NotNil(t, rec.BiddingDeadline)
		require.NotNil(t, rec.OpeningTime)
		assert.Equal(t, time.Date(2025, 6, 20, 9, 0, 0, 0, time.Local), *rec.BiddingDeadline)
		assert.Equal(t, *rec.BiddingDeadline, *rec.OpeningTime)
		assert.Equal(t, "河北省公共资源交易中心开标一室", rec.OpeningVenue)
	})

	t.Run("extracts the three contact sub-blocks", func(t *testing.T) {
		assert.Equal(t, "石家庄市第一中学", rec.PurchaserName)
		assert.Equal(t, "石家庄市长安区育才街1号", rec.PurchaserAddress)
		assert.Equal(t, "0311-12345678", rec.PurchaserPhone)
		assert.Equal(t, "河北诚信招标代理有限公司", rec.AgentName)
		assert.Equal(t, "石家庄市桥西区中华大街88号", rec.AgentAddress)
		assert.Equal(t, "0311-87654321", rec.AgentPhone)
		assert.Equal(t, "王工", rec.ProjectContactName)
		assert.Equal(t, "0311-11112222", rec.ProjectContactPhone)
	})

	t.Run("records section text verbatim", func(t *testing.T) {
		assert.Contains(t, rec.SectionOverview, "潜在投标人")
		assert.Contains(t, rec.SectionBasicInfo, "HB2025-JZ-001")
		assert.Contains(t, rec.SectionBasicInfo, "\n")
		assert.Contains(t, rec.SectionQualification, "第二十二条")
		assert.Contains(t, rec.SectionDocAcquisition, "2025-06-08")
		assert.Contains(t, rec.SectionBiddingSchedule, "开标一室")
		assert.Contains(t, rec.SectionAnnouncementPeriod, "5个工作日")
		assert.Contains(t, rec.SectionOtherMatters, "无")
		assert.Contains(t, rec.SectionContact, "王工")
	})

	t.Run("validates as a persistable record", func(t *testing.T) {
		assert.NoError(t, rec.Validate())
	})
}

func TestParser_Parse_RunOnBasicInfoDoesNotBleed(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<p><strong>项目概况</strong></p>
<p>测试项目的潜在投标人应当按时获取招标文件。</p>
<p><strong>一、项目基本情况</strong></p>
<p>项目编号：ABC-001项目名称：测试项目招标方式：公开招标预算金额：50万元</p>
<p><strong>二、申请人资格要求</strong></p>
<p>符合政府采购法规定。</p>
<p><strong>五、公告期限</strong></p>
<p>5个工作日。</p>
</div></body></html>`

	rec := newTestParser().Parse("info-002", "", html, "")

	assert.Equal(t, tenderparse.StatusSuccess, rec.Status)
	assert.Equal(t, "ABC-001", rec.ProjectNo)
	assert.Equal(t, "测试项目", rec.ProjectName)
	assert.Equal(t, "公开招标", rec.TenderMethod)
	require.NotNil(t, rec.BudgetAmount)
	assert.Equal(t, "500000", rec.BudgetAmount.String())
}

func TestParser_Parse_ProjectNameTruncatedAtLimit(t *testing.T) {
	t.Parallel()

	longName := strings.Repeat("石", 250)
	html := `<html><body><div class="ewb-copy">
<p><strong>一、项目基本情况</strong></p>
<p>项目编号：LONG-2025-001</p>
<p>项目名称：` + longName + `</p>
<p>预算金额：10万元</p>
<p><strong>二、申请人资格要求</strong></p>
<p>无特殊要求。</p>
</div></body></html>`

	rec := newTestParser().Parse("info-003", "", html, "")

	assert.Equal(t, tenderparse.StatusSuccess, rec.Status)
	assert.Equal(t, 200, utf8.RuneCountInString(rec.ProjectName))
}

func TestParser_Parse_EmptyDocument(t *testing.T) {
	t.Parallel()

	rec := newTestParser().Parse("info-004", "http://example.com/4", "", "提示的项目名称")

	assert.Equal(t, tenderparse.StatusFailed, rec.Status)
	assert.Equal(t, "empty document", rec.ErrorMessage)
	assert.Equal(t, "info-004", rec.InfoID)
	assert.Equal(t, "提示的项目名称", rec.ProjectName)
}

func TestParser_Parse_MissingContentContainer(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="other-layout">
	<p>某单位公开选取中介机构的公告，项目编号 XYZ-20250001。</p>
	<p>预算：30万元</p>
</div>
</body></html>`

	rec := newTestParser().Parse("info-005", "", html, "")

	assert.Equal(t, tenderparse.StatusFailed, rec.Status)
	assert.Equal(t, "missing core content container", rec.ErrorMessage)

	// Best-effort extraction still recovers what the page text offers.
	assert.Equal(t, "XYZ-20250001", rec.ProjectNo)
	require.NotNil(t, rec.BudgetAmount)
	assert.Equal(t, "300000", rec.BudgetAmount.String())
}

func TestParser_Parse_SingleSourceAnnouncementSkipped(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<p>采用单一来源采购方式原因及相关说明如下。</p>
<p>项目编号：DY-2025-007</p>
<p>项目名称：某研究院专用软件续费</p>
<p>预算金额：80万元</p>
<p>拟定供应商信息：某软件股份有限公司</p>
</div></body></html>`

	rec := newTestParser().Parse("info-006", "", html, "某研究院专用软件续费项目")

	assert.Equal(t, tenderparse.StatusSkippedNonStandard, rec.Status)
	assert.Equal(t, "非标准采购方式公告", rec.ErrorMessage)
	assert.Equal(t, "某研究院专用软件续费项目", rec.ProjectName)
}

func TestParser_Parse_TableAnnouncementSkippedWithPartialFields(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<table>
	<tr><td>采购项目名称：</td><td>邢台市道路养护服务</td></tr>
	<tr><td>采购项目编号：</td><td>XT-2025-YH-003</td></tr>
	<tr><td>采购方式：</td><td>公开招标</td></tr>
	<tr><td>预算金额：</td><td>65万元</td></tr>
	<tr><td>采购人名称：</td><td>邢台市公路管理处</td></tr>
	<tr><td>开标时间：</td><td>2025-07-01 09:30</td></tr>
	<tr><td>开标地点：</td><td>邢台市公共资源交易中心</td></tr>
</table>
</div></body></html>`

	rec := newTestParser().Parse("info-007", "", html, "")

	assert.Equal(t, tenderparse.StatusSkippedNonStandard, rec.Status)
	assert.Equal(t, "表格式简易公告", rec.ErrorMessage)
	assert.Equal(t, "邢台市道路养护服务", rec.ProjectName)
	assert.Equal(t, "XT-2025-YH-003", rec.ProjectNo)
	assert.Equal(t, "公开招标", rec.TenderMethod)
	assert.Equal(t, "邢台市公路管理处", rec.PurchaserName)
	assert.Equal(t, "邢台市公共资源交易中心", rec.OpeningVenue)
	require.NotNil(t, rec.BudgetAmount)
	assert.Equal(t, "650000", rec.BudgetAmount.String())
	require.NotNil(t, rec.OpeningTime)
	assert.Equal(t, time.Date(2025, 7, 1, 9, 30, 0, 0, time.Local), *rec.OpeningTime)
}

func TestParser_Parse_WordStyleDocument(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<h2>一、项目基本情况</h2>
<p class="MsoNormal">1.项目编号：<u>HB-2025-WD-009</u></p>
<p class="MsoNormal">2.项目名称：<u>保定市政务云平台扩容项目</u></p>
<p class="MsoNormal">3.项目预算金额：120万元，最高限价：120万元</p>
<h2>采购需求</h2>
<p class="MsoNormal">服务器及存储设备一批，详见招标文件。</p>
</div></body></html>`

	rec := newTestParser().Parse("info-008", "", html, "")

	assert.Equal(t, tenderparse.StatusSuccess, rec.Status)
	assert.Equal(t, "HB-2025-WD-009", rec.ProjectNo)
	assert.Equal(t, "保定市政务云平台扩容项目", rec.ProjectName)
	require.NotNil(t, rec.BudgetAmount)
	assert.Equal(t, "1200000", rec.BudgetAmount.String())
	assert.Contains(t, rec.SectionProcurementNeed, "服务器及存储设备")

	t.Run("infers area from the project name", func(t *testing.T) {
		assert.Equal(t, "保定市", rec.Area)
	})
}

func TestParser_Parse_ExcludedWordStyleAnnouncementSkipped(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<h2>一、项目基本情况</h2>
<p class="MsoNormal">项目编号：DY-2025-WD-012</p>
<p class="MsoNormal">项目名称：某研究院检测仪器维保</p>
<p class="MsoNormal">预算金额：60万元</p>
<p class="MsoNormal">本项目拟采用单一来源方式进行采购。</p>
</div></body></html>`

	rec := newTestParser().Parse("info-011", "", html, "某研究院检测仪器维保项目")

	assert.Equal(t, tenderparse.StatusSkippedNonStandard, rec.Status)
	assert.Equal(t, "非标准采购方式公告", rec.ErrorMessage)
	assert.Equal(t, "某研究院检测仪器维保项目", rec.ProjectName)
}

func TestParser_Parse_EmptyNameValueDoesNotLeakNextLabel(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="ewb-copy">
<p><strong>一、项目基本情况</strong></p>
<p>项目编号：KZ-2025-011</p>
<p>项目名称：</p>
<p>预算金额：40万元</p>
<p><strong>二、申请人资格要求</strong></p>
<p>符合政府采购法规定。</p>
</div></body></html>`

	rec := newTestParser().Parse("info-012", "", html, "候补项目名称")

	assert.Equal(t, tenderparse.StatusSuccess, rec.Status)
	assert.NotEqual(t, "预算金额", rec.ProjectName)
	assert.Equal(t, "候补项目名称", rec.ProjectName)
	assert.Equal(t, "KZ-2025-011", rec.ProjectNo)
	require.NotNil(t, rec.BudgetAmount)
	assert.Equal(t, "400000", rec.BudgetAmount.String())
}

func TestParser_Parse_Idempotent(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	first := p.Parse("info-009", "http://example.com/9", standardAnnouncementHTML, "")
	second := p.Parse("info-009", "http://example.com/9", standardAnnouncementHTML, "")

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ProjectNo, second.ProjectNo)
	assert.Equal(t, first.ProjectName, second.ProjectName)
	assert.Equal(t, first.TenderMethod, second.TenderMethod)
	assert.Equal(t, first.PurchaserName, second.PurchaserName)
	assert.Equal(t, first.SectionBasicInfo, second.SectionBasicInfo)
	require.NotNil(t, second.BudgetAmount)
	assert.True(t, first.BudgetAmount.Equal(*second.BudgetAmount))
}

func TestParser_Parse_MalformedHTMLNeverPanics(t *testing.T) {
	t.Parallel()

	rec := newTestParser().Parse("info-010", "", `<div class="ewb-copy"><p><strong>一、项目基本`, "")

	// goquery tolerates truncated markup; whatever the outcome, the parser
	// must return a terminal record.
	assert.NotEmpty(t, rec.Status)
	assert.Equal(t, "info-010", rec.InfoID)
}
